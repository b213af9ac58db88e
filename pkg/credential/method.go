package credential

// MethodKind identifies the acquisition path.
type MethodKind uint8

const (
	// MethodNumeric exchanges a typed numeric code for a payload.
	MethodNumeric MethodKind = iota

	// MethodScanned uses a payload read from a QR code.
	MethodScanned

	// MethodSimulated proceeds without a device connection.
	MethodSimulated
)

// String returns the method name.
func (k MethodKind) String() string {
	switch k {
	case MethodNumeric:
		return "NUMERIC"
	case MethodScanned:
		return "SCANNED"
	case MethodSimulated:
		return "SIMULATED"
	default:
		return "UNKNOWN"
	}
}

// Method is one of Numeric, Scanned or Simulated.
type Method interface {
	Kind() MethodKind
	isMethod()
}

// Numeric carries the code as typed by the user (not yet normalized).
type Numeric struct {
	Code string
}

// Scanned carries the decoded text of a QR code.
type Scanned struct {
	Payload string
}

// Simulated selects the offline connection.
type Simulated struct{}

// Kind implements Method.
func (Numeric) Kind() MethodKind { return MethodNumeric }

// Kind implements Method.
func (Scanned) Kind() MethodKind { return MethodScanned }

// Kind implements Method.
func (Simulated) Kind() MethodKind { return MethodSimulated }

func (Numeric) isMethod()   {}
func (Scanned) isMethod()   {}
func (Simulated) isMethod() {}
