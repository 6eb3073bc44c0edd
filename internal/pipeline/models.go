package pipeline

// Request is the body accepted by the HTTP endpoint and the variables of
// the combined Zeebe task.
type Request struct {
	YourName  string `json:"your_name"`
	YourInfo  string `json:"your_info"`
	TheirName string `json:"their_name"`
	TheirInfo string `json:"their_info"`
	Context   string `json:"context"`
}

type Metadata struct {
	YourInterests   []string `json:"your_interests"`
	TheirInterests  []string `json:"their_interests"`
	CommonInterests []string `json:"common_interests"`
	Context         string   `json:"context"`
	RawAIResponse   string   `json:"raw_ai_response"`
}

// ResponseEnvelope carries no timestamps, so identical inputs with a
// deterministic completion service give identical envelopes.
type ResponseEnvelope struct {
	RawResponse            string   `json:"raw_response"`
	BasedOnTheirInterests  []string `json:"based_on_their_interests"`
	BasedOnCommonInterests []string `json:"based_on_common_interests"`
	Metadata               Metadata `json:"metadata"`
}

type ErrorEnvelope struct {
	Error       string `json:"error"`
	Details     string `json:"details"`
	RawResponse string `json:"raw_response"`
}
