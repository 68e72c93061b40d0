package gamesdk

import (
	"github.com/opd-ai/gamesdk/interfaces"
)

var knownUserFlags = [...]UserFlag{
	UserFlagPartner,
	UserFlagHypeSquadEvents,
	UserFlagHypeSquadHouse1,
	UserFlagHypeSquadHouse2,
	UserFlagHypeSquadHouse3,
}

// Has reports whether every bit of flag is set in f.
func (f UserFlag) Has(flag UserFlag) bool {
	return f&flag == flag
}

func (d *Discord) userManager() (interfaces.IUserManager, error) {
	core, err := d.nativeCore()
	if err != nil {
		return nil, err
	}
	return core.UserManager(), nil
}

// CurrentUser returns the user the Discord client is logged in as. It fails
// with ErrNotFound until the client has reported the user, which is
// signalled by OnCurrentUserUpdate.
func (d *Discord) CurrentUser() (User, error) {
	mgr, err := d.userManager()
	if err != nil {
		return User{}, err
	}
	var u interfaces.User
	if err := resultError("get current user", mgr.GetCurrentUser(&u)); err != nil {
		return User{}, err
	}
	return userFromNative(&u), nil
}

// User fetches any user by id.
func (d *Discord) User(id UserID, cb func(User, error)) error {
	mgr, err := d.userManager()
	if err != nil {
		return err
	}
	convert := func(p uintptr) User { return userFromNative(at[interfaces.User](p)) }
	return submitValue(d, "User", convert, cb, func(data uintptr) {
		mgr.GetUser(int64(id), data)
	})
}

// CurrentUserPremiumKind returns the Nitro tier of the current user.
func (d *Discord) CurrentUserPremiumKind() (PremiumKind, error) {
	mgr, err := d.userManager()
	if err != nil {
		return PremiumKindNone, err
	}
	var kind int32
	if err := resultError("get current user premium type", mgr.GetCurrentUserPremiumType(&kind)); err != nil {
		return PremiumKindNone, err
	}
	return PremiumKind(kind), nil
}

// CurrentUserFlags returns the known profile flags of the current user.
func (d *Discord) CurrentUserFlags() (UserFlag, error) {
	mgr, err := d.userManager()
	if err != nil {
		return 0, err
	}
	var flags UserFlag
	for _, flag := range knownUserFlags {
		var has bool
		if err := resultError("current user has flag", mgr.CurrentUserHasFlag(int32(flag), &has)); err != nil {
			return 0, err
		}
		if has {
			flags |= flag
		}
	}
	return flags, nil
}
