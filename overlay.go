package gamesdk

import (
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/textbuf"
)

func (d *Discord) overlayManager() (interfaces.IOverlayManager, error) {
	core, err := d.nativeCore()
	if err != nil {
		return nil, err
	}
	return core.OverlayManager(), nil
}

// OverlayEnabled reports whether the user has the overlay enabled.
func (d *Discord) OverlayEnabled() (bool, error) {
	mgr, err := d.overlayManager()
	if err != nil {
		return false, err
	}
	var enabled bool
	mgr.IsEnabled(&enabled)
	return enabled, nil
}

// OverlayOpened reports whether the overlay is showing and has focus.
func (d *Discord) OverlayOpened() (bool, error) {
	mgr, err := d.overlayManager()
	if err != nil {
		return false, err
	}
	var locked bool
	mgr.IsLocked(&locked)
	return !locked, nil
}

// SetOverlayOpened opens or closes the overlay.
func (d *Discord) SetOverlayOpened(opened bool, cb func(error)) error {
	mgr, err := d.overlayManager()
	if err != nil {
		return err
	}
	return d.submitResult("SetOverlayOpened", cb, func(data uintptr) {
		mgr.SetLocked(!opened, data)
	})
}

// OpenInviteOverlay opens the overlay to invite others to the current
// activity, to join or to spectate.
func (d *Discord) OpenInviteOverlay(action ActivityActionKind, cb func(error)) error {
	mgr, err := d.overlayManager()
	if err != nil {
		return err
	}
	return d.submitResult("OpenInviteOverlay", cb, func(data uintptr) {
		mgr.OpenActivityInvite(int32(action), data)
	})
}

// OpenGuildInviteOverlay opens the overlay on a guild invite code.
func (d *Discord) OpenGuildInviteOverlay(code string, cb func(error)) error {
	mgr, err := d.overlayManager()
	if err != nil {
		return err
	}
	c := textbuf.Terminate(code)
	return d.submitResult("OpenGuildInviteOverlay", cb, func(data uintptr) {
		mgr.OpenGuildInvite(c, data)
	})
}

// OpenVoiceSettings opens the voice settings overlay.
func (d *Discord) OpenVoiceSettings(cb func(error)) error {
	mgr, err := d.overlayManager()
	if err != nil {
		return err
	}
	return d.submitResult("OpenVoiceSettings", cb, func(data uintptr) {
		mgr.OpenVoiceSettings(data)
	})
}
