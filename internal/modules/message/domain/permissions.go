package domain

import (
	"strings"

	"github.com/samber/lo"
)

// Permission is a single capability bit. Values follow Discord's permission
// bit layout so platform bitsets can be used directly.
type Permission int64

const (
	PermissionAdministrator  Permission = 1 << 3
	PermissionManageChannels Permission = 1 << 4
	PermissionManageGuild    Permission = 1 << 5
)

var permissionNames = map[Permission]string{
	PermissionAdministrator:  "administrator",
	PermissionManageChannels: "manage_channels",
	PermissionManageGuild:    "manage_guild",
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return "unknown"
}

// PermissionSet answers capability queries for one member.
type PermissionSet interface {
	Has(p Permission) bool
}

// Permissions is a bitset of Permission values.
type Permissions int64

// Has reports whether p is granted. Administrator implies every permission.
func (b Permissions) Has(p Permission) bool {
	if int64(b)&int64(PermissionAdministrator) != 0 {
		return true
	}
	return int64(b)&int64(p) == int64(p)
}

// Missing returns the permissions of required that set does not grant.
// A nil set grants nothing.
func Missing(set PermissionSet, required ...Permission) []Permission {
	return lo.Filter(required, func(p Permission, _ int) bool {
		return set == nil || !set.Has(p)
	})
}

// MissingPermissionsError is returned when a member lacks a required permission.
type MissingPermissionsError struct {
	Missing []Permission
}

func (e *MissingPermissionsError) Error() string {
	names := lo.Map(e.Missing, func(p Permission, _ int) string {
		return p.String()
	})
	return "missing permissions: " + strings.Join(names, " ")
}
