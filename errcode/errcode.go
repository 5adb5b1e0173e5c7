package errcode

// Code is a stable, display-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	InvalidParams Code = "invalid_params"
	Timeout       Code = "timeout"

	// Sensors.
	I2CError          Code = "i2c_error"
	I2CCRC            Code = "i2c_crc"
	WrongFamily       Code = "wrong_family"
	OneWireTimeout    Code = "onewire_timeout"
	OneWireCRC        Code = "onewire_crc"
	OneWireConflict   Code = "onewire_conflict"
	MeasurementFailed Code = "measurement_failed"

	// Network.
	AssociateFailed Code = "associate_failed"
	ConnectFailed   Code = "connect_failed"
	SendFailed      Code = "send_failed"
	RecvFailed      Code = "recv_failed"
	CloseFailed     Code = "close_failed"

	Overflow Code = "overflow"
	Unknown  Code = "unknown"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match a wrapped code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap attaches op and cause to c. A nil cause still yields an error.
func Wrap(c Code, op string, cause error) error {
	return &E{C: c, Op: op, Err: cause}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// MapDriverErr maps low-level bus errors to a Code.
// Anything that already carries a code keeps it; timeouts are recognised
// through the net.Error style Timeout() method.
func MapDriverErr(err error) Code {
	if err == nil {
		return OK
	}
	if c := Of(err); c != Error {
		return c
	}
	type timeouter interface{ Timeout() bool }
	if t, ok := err.(timeouter); ok && t.Timeout() {
		return Timeout
	}
	return Error
}
