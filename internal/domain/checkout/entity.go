// internal/domain/checkout/entity.go
package checkout

// Coordinates is a WGS84 position
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the position lies within WGS84 bounds
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Address is a shipping address. ID is set only for addresses persisted by the
// remote API.
type Address struct {
	ID          int          `json:"id,omitempty"`
	Label       string       `json:"label"`
	Phone       string       `json:"phone,omitempty"`
	Details     string       `json:"details,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Persisted reports whether the address is stored server-side
func (a Address) Persisted() bool {
	return a.ID > 0
}

// AddressSource tells which kind of address is active
type AddressSource string

const (
	SourceNone    AddressSource = "none"
	SourceSaved   AddressSource = "saved"
	SourceAdHoc   AddressSource = "ad_hoc"
	SourceCurrent AddressSource = "current"
)

// View is the serialisable state of a selection
type View struct {
	Source          AddressSource `json:"source"`
	Address         *Address      `json:"address,omitempty"`
	CurrentLocation *Address      `json:"current_location,omitempty"`
	PaymentMethod   string        `json:"payment_method,omitempty"`
}
