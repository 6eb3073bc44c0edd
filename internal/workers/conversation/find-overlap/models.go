// internal/workers/conversation/find-overlap/models.go
package findoverlap

type Input struct {
	YourInterests  []string `json:"your_interests"`
	TheirInterests []string `json:"their_interests"`
}

type Output struct {
	CommonInterests []string `json:"common_interests"`
}
