package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-bff/internal/config"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "warn", Format: "json"}}
	l := New(cfg)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	_, ok := l.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	cfg.Logging = config.LoggingConfig{Level: "nonsense", Format: "text"}
	l = New(cfg)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	_, ok = l.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}
