package xr

// SessionInit describes the session a Manager asks the platform for.
type SessionInit struct {
	// Mode is "immersive-vr" or "immersive-ar".
	Mode string

	// ReferenceSpace is the space the rig is placed in.
	ReferenceSpace string

	// OptionalFeatures are requested but not required.
	OptionalFeatures []string
}

// Session is a running immersive session owned by the platform.
type Session interface {
	// End asks the platform to stop the session. The platform reports the end through the
	// OnEnd callback.
	End()

	// OnEnd registers the callback fired when the session stops for any reason.
	//
	// Parameters:
	//   - callback: the function to fire
	OnEnd(callback func())

	// OnSelect registers the callback fired when a controller trigger changes state.
	//
	// Parameters:
	//   - callback: receives the controller index and whether the trigger is pressed
	OnSelect(callback func(controller int, pressed bool))
}

// Platform is the headset runtime. Implementations wrap whatever XR runtime is linked in;
// the display works without one.
type Platform interface {
	// Supports reports whether sessions of the mode can be started.
	//
	// Parameters:
	//   - mode: "immersive-vr" or "immersive-ar"
	//
	// Returns:
	//   - bool: true when supported
	Supports(mode string) bool

	// RequestSession starts a session.
	//
	// Parameters:
	//   - init: the requested mode, reference space and features
	//
	// Returns:
	//   - Session: the running session
	//   - error: error if the runtime refused the session
	RequestSession(init SessionInit) (Session, error)
}
