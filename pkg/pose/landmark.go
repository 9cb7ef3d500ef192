// Package pose defines the landmark data model shared by the estimator
// and the frame adapter: 33 named body joints with normalized
// coordinates and a visibility score.
package pose

// Count is the number of landmarks in a full body pose.
const Count = 33

// Landmark is a single tracked body joint.
//
// X and Y are normalized to the frame dimensions (~0-1, Y increases
// downward in image coordinates). Z is depth relative to the hips in
// the same scale. Visibility is the estimator's confidence (0-1) that
// the joint is present and not occluded.
type Landmark struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// names maps landmark ids to human-readable joint names. The model
// reports positions by index only, so this table makes output readable.
var names = [Count]string{
	0:  "Nose",
	1:  "Left Eye (Inner)",
	2:  "Left Eye",
	3:  "Left Eye (Outer)",
	4:  "Right Eye (Inner)",
	5:  "Right Eye",
	6:  "Right Eye (Outer)",
	7:  "Left Ear",
	8:  "Right Ear",
	9:  "Mouth (Left)",
	10: "Mouth (Right)",
	11: "Left Shoulder",
	12: "Right Shoulder",
	13: "Left Elbow",
	14: "Right Elbow",
	15: "Left Wrist",
	16: "Right Wrist",
	17: "Left Pinky",
	18: "Right Pinky",
	19: "Left Index Finger",
	20: "Right Index Finger",
	21: "Left Thumb",
	22: "Right Thumb",
	23: "Left Hip",
	24: "Right Hip",
	25: "Left Knee",
	26: "Right Knee",
	27: "Left Ankle",
	28: "Right Ankle",
	29: "Left Heel",
	30: "Right Heel",
	31: "Left Foot Index",
	32: "Right Foot Index",
}

// Name returns the joint name for a landmark id.
// The second return is false for ids outside 0..32.
func Name(id int) (string, bool) {
	if id < 0 || id >= Count {
		return "", false
	}
	return names[id], true
}
