package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewActor(t *testing.T) {
	regular := NewActor(Profile{ID: 5, Role: "customer"}, "sales", 900)
	assert.IsType(t, Regular{}, regular)
	assert.Equal(t, 5, regular.OrderAccountID())
	assert.False(t, IsSalesRep(regular))

	rep := NewActor(Profile{ID: 6, Role: " Sales "}, "sales", 900)
	assert.IsType(t, SalesRep{}, rep)
	assert.Equal(t, 900, rep.OrderAccountID())
	assert.Equal(t, 6, rep.Profile().ID)
	assert.True(t, IsSalesRep(rep))
}

func TestCustomerInfoNormalize(t *testing.T) {
	c := CustomerInfo{Name: "  Ana ", Phone: " 0123 ", Email: ""}.Normalize()
	assert.Equal(t, CustomerInfo{Name: "Ana", Phone: "0123"}, c)
}
