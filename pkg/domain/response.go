package domain

// RawResponse is what the host application produced for one dispatched action.
// It belongs to the dispatch that created it and is dropped once normalized.
type RawResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body"`
}

// Response is the value the default normalization policy hands back to scripts:
// the projected raw response plus the action that produced it.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body"`
	Request    Action            `json:"request"`
}
