// internal/workers/conversation/generate-starters/models.go
package generatestarters

type Input struct {
	YourName        string   `json:"your_name"`
	TheirName       string   `json:"their_name"`
	Context         string   `json:"context"`
	YourInterests   []string `json:"your_interests"`
	TheirInterests  []string `json:"their_interests"`
	CommonInterests []string `json:"common_interests"`
}

type Output struct {
	RawResponse            string   `json:"raw_response"`
	BasedOnTheirInterests  []string `json:"based_on_their_interests"`
	BasedOnCommonInterests []string `json:"based_on_common_interests"`
}

// Suggestions is the JSON shape the prompt asks the model to return.
type Suggestions struct {
	BasedOnTheirInterests  []string `json:"based_on_their_interests"`
	BasedOnCommonInterests []string `json:"based_on_common_interests"`
}
