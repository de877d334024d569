package models

// Person represents a contact together with its phone numbers.
type Person struct {
	// ID is the store-generated primary key. Zero until the person is added.
	ID int64

	FirstName string
	LastName  string
	Birthday  string
	Email     string

	AddressLine1 string
	AddressLine2 string
	City         string
	Prov         string
	Country      string
	Postcode     string

	// PhoneNumbers may be nil when adding a person; that means no phones.
	// Records read from the store always carry a non-nil slice.
	PhoneNumbers []Phone
}

// Phone is a labelled phone number (e.g. "555-0100", "CELL").
type Phone struct {
	Number string
	Label  string
}

// FullName returns "First Last", trimming the gap when either part is empty.
func (p *Person) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
