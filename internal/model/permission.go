package model

// Permission is a bit-flag set of access rights carried by a Role.
type Permission int64

const (
	PermissionReadUserInfo  Permission = 1 << iota // 1
	PermissionWriteUserInfo                        // 2

	// PermissionAdmin is the union of both base flags, not an independent bit.
	PermissionAdmin = PermissionReadUserInfo | PermissionWriteUserInfo
)

// Valid reports whether p is representable as a subset of the base flags.
func (p Permission) Valid() bool {
	return p&^PermissionAdmin == 0
}

// Has reports whether every bit of flag is set in p.
func (p Permission) Has(flag Permission) bool {
	return p&flag == flag
}
