// Package at holds the AT command surface used to submit PDUs and the
// helpers that recognize modem replies.
package at

const (
	// Terminal Control
	CRLF   = "\r\n"
	Prompt = "> "
	CtrlZ  = "\x1A"

	// Commands
	CmdPDUMode = "AT+CMGF=0"
	CmdSendPDU = "AT+CMGS=%d"

	// Response Codes
	OK         = "OK"
	ERROR      = "ERROR"
	NoCarrier  = "NO CARRIER"
	NoDialtone = "NO DIALTONE"
	Busy       = "BUSY"
	NoAnswer   = "NO ANSWER"
	CmeError   = "+CME ERROR:"
	CmsError   = "+CMS ERROR:"

	// Step markers, matched case-insensitively anywhere in a response
	MarkerOK        = OK
	MarkerPrompt    = ">"
	MarkerSubmitted = "+CMGS"
	MarkerError     = ERROR

	// URCs (Unsolicited Result Codes)
	UrcNewMsg        = "+CMTI:"
	UrcMessageReport = "+CDSI:"
	UrcCall          = "RING"
)

type ResponseType int

const (
	TypeFinal  ResponseType = iota // OK, ERROR
	TypeURC                        // Asynchronous notifications
	TypeData                       // Intermediate command output (+CMGS: ...)
	TypePrompt                     // PDU input prompt
)

// Result is the classification of an accumulated response against the
// marker a step waits for.
type Result int

const (
	Pending  Result = iota // keep reading
	Matched                // the expected marker arrived
	Rejected               // the modem reported an error
)

func (r Result) String() string {
	switch r {
	case Pending:
		return "pending"
	case Matched:
		return "matched"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}
