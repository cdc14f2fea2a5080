package answer

// Request is the payload sent for one turn
type Request struct {
	Question string      `json:"question"`
	History  [][2]string `json:"history"`
}

// Response is the payload returned by the answer service
type Response struct {
	Result Result `json:"result"`
}

// Result carries either the answer text or an error marker
type Result struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// unauthorizedMarker is the error value the service uses to deny a request
const unauthorizedMarker = "Unauthorized"
