// Package projects manages research projects and their interviews on the
// workspace backend.
package projects

// Project is a container for related interviews.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Interview is one recorded session attached to a project. DateTime is the
// client-side submission timestamp in RFC 3339. Keywords is a legacy field
// carried as an empty string on new records. AudioFileID references the
// stored audio object and may dangle after an audio-only delete.
type Interview struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Transcript  string `json:"transcript"`
	Keywords    string `json:"keywords"`
	DateTime    string `json:"dateTime"`
	AudioFileID string `json:"audioFileId"`
}

type projectFields struct {
	Name string `json:"name"`
}

type interviewFields struct {
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"`
	Transcript  string `json:"transcript"`
	Keywords    string `json:"keywords"`
	DateTime    string `json:"dateTime"`
	AudioFileID string `json:"audioFileId"`
}
