package dispatch

import "fmt"

// Status is the processing status of a submitted request as shown to dispatchers.
type Status string

const (
	StatusPending    Status = "대기"
	StatusInProgress Status = "처리중"
	StatusComplete   Status = "처리완료"
	StatusError      Status = "처리오류"

	// Review statuses used by the web intake.
	StatusUnparsed  Status = "파싱 처리 전"
	StatusReviewing Status = "파싱 처리 완료, 검토 중"
	StatusReviewed  Status = "검토 완료"
)

var knownStatuses = map[Status]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusComplete:   true,
	StatusError:      true,
	StatusUnparsed:   true,
	StatusReviewing:  true,
	StatusReviewed:   true,
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !knownStatuses[st] {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Terminal reports whether no further processing follows the status.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError || s == StatusReviewed
}
