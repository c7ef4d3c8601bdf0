package setter

import (
	"os/user"
)

// UserValidator matches a value against a real user of the host via the
// password database, optionally constrained to membership in one or
// more named groups. os/user is the only correct way to query the
// host's user/group database in Go; no pack library wraps it, so it is
// used directly (justified stdlib use, noted in DESIGN.md).
type UserValidator struct {
	Groups   []string // if non-empty, the user must belong to at least one
	Optional bool
}

func (v UserValidator) Validate(input string) (string, error) {
	if v.Optional && input == optionalNone {
		return optionalNone, nil
	}
	u, err := user.Lookup(input)
	if err != nil {
		return "", invalidf(input, "no such user")
	}
	if len(v.Groups) > 0 {
		if ok, err := userInAnyGroup(u, v.Groups); err != nil {
			return "", invalidf(input, "checking group membership: "+err.Error())
		} else if !ok {
			return "", invalidf(input, "not a member of any required group")
		}
	}
	return u.Username, nil
}

func (v UserValidator) Complete(string) ([]string, error) {
	// The host's user database has no cheap enumeration primitive in
	// os/user; completion for this validator is left empty, matching
	// the port/index validators' posture for non-enumerable domains.
	return nil, nil
}

func userInAnyGroup(u *user.User, groups []string) (bool, error) {
	gids, err := u.GroupIds()
	if err != nil {
		return false, err
	}
	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		if grp, err := user.LookupGroup(g); err == nil {
			want[grp.Gid] = true
		}
	}
	for _, gid := range gids {
		if want[gid] {
			return true, nil
		}
	}
	return false, nil
}
