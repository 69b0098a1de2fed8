package id

// Alphabets accepted by NewRandomFrom.
const (
	AlphabetLower = "abcdefghijklmnopqrstuvwxyz0123456789"
	AlphabetMixed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewRandom returns n random lowercase alphanumeric characters.
func NewRandom(n int) string {
	return NewRandomFrom(AlphabetLower, n)
}

// NewRandomFrom returns n characters drawn uniformly from alphabet.
// The alphabet must be ASCII and at most 256 bytes long.
func NewRandomFrom(alphabet string, n int) string {
	if n <= 0 || alphabet == "" || len(alphabet) > 256 {
		return ""
	}

	// Bytes at or above limit are rejected to avoid modulo bias.
	limit := 256 - 256%len(alphabet)

	out := make([]byte, n)
	var buf [64]byte
	for i := 0; i < n; {
		fill(buf[:])
		for _, v := range buf {
			if int(v) >= limit {
				continue
			}
			out[i] = alphabet[int(v)%len(alphabet)]
			i++
			if i == n {
				break
			}
		}
	}

	return string(out)
}
