package domain

// PartyRole classifies a counterparty by the side of the ledger it normally
// sits on. Both participates in sales and purchases.
type PartyRole string

const (
	RoleCustomer PartyRole = "Customer"
	RoleSupplier PartyRole = "Supplier"
	RoleBoth     PartyRole = "Both"
)

// Direction is the transaction direction a report is parametrized by.
type Direction string

const (
	DirectionPay     Direction = "Pay"
	DirectionReceive Direction = "Receive"
)

// Party is one counterparty directory entry.
type Party struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Role     PartyRole
	Currency string
}
