// internal/workers/conversation/resolve-interests/models.go
package resolveinterests

type Input struct {
	YourInfo  string `json:"your_info"`
	TheirInfo string `json:"their_info"`
}

type Output struct {
	YourInterests  []string `json:"your_interests"`
	TheirInterests []string `json:"their_interests"`
}
