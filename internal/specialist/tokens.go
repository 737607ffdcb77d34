package specialist

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is the BPE encoding used for token estimation when the
// provider does not report usage.
const tokenEncoding = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// EstimateTokens returns the token count of text under the estimation
// encoding. When the encoding cannot be loaded it falls back to a bytes/4
// approximation, which is close enough for budget accounting.
func EstimateTokens(text string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tokenEncoding)
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return approxTokens(text)
	}
	return len(encoding.Encode(text, nil, nil))
}

func approxTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
