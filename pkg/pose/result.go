package pose

import "encoding/json"

// Result is the success payload: 0 or exactly 33 landmarks, index ordered.
// An empty pose means no person was detected in the frame.
type Result struct {
	Pose []Landmark `json:"pose"`
}

// ErrorResult is the failure payload. It is mutually exclusive with
// Result within a single response.
type ErrorResult struct {
	Error string `json:"error"`
}

// EncodeResult marshals landmarks into the wire form {"pose": [...]}.
// A nil slice encodes as an empty array, never null.
func EncodeResult(landmarks []Landmark) string {
	if landmarks == nil {
		landmarks = []Landmark{}
	}
	data, err := json.Marshal(Result{Pose: landmarks})
	if err != nil {
		// Landmark has no unmarshalable fields, so this cannot happen.
		return `{"pose": []}`
	}
	return string(data)
}

// EncodeError marshals an error message into the wire form {"error": "..."}.
func EncodeError(msg string) string {
	data, err := json.Marshal(ErrorResult{Error: msg})
	if err != nil {
		return `{"error": "encoding failure"}`
	}
	return string(data)
}
