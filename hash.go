package notecheck

import "github.com/corona10/goimagehash"

// HashDistance is the Hamming distance between the perception hashes of a and b.
// It is a diagnostic only and plays no part in classification.
func HashDistance(a, b *Image) (int, error) {
	ha, err := goimagehash.PerceptionHash(a.Gray())
	if err != nil {
		return 0, err
	}
	hb, err := goimagehash.PerceptionHash(b.Gray())
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}
