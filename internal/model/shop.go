package model

// Shop identifies one of the two campus printing locations.
type Shop string

const (
	ShopIT  Shop = "IT"
	ShopSSC Shop = "SSC"
)

// Valid reports whether s is a known shop.
func (s Shop) Valid() bool {
	return s == ShopIT || s == ShopSSC
}

// AdminRoom returns the realtime room name for this shop's administrators.
func (s Shop) AdminRoom() string {
	switch s {
	case ShopIT:
		return "it_admins"
	case ShopSSC:
		return "ssc_admins"
	}
	return ""
}

// Role is a user's role in the system.
type Role string

const (
	RoleStudent  Role = "student"
	RoleITAdmin  Role = "it_admin"
	RoleSSCAdmin Role = "ssc_admin"
)

// AdminShop returns the shop a role administers, or "" for non-admin roles.
func (r Role) AdminShop() Shop {
	switch r {
	case RoleITAdmin:
		return ShopIT
	case RoleSSCAdmin:
		return ShopSSC
	}
	return ""
}
