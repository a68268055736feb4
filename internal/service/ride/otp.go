package ride

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// generateOTP draws a pickup code uniformly from [10^(length-1), 10^length),
// so the code always has exactly length digits and no leading zero.
func generateOTP(length int) (string, error) {
	if length < 1 || length > 9 {
		return "", fmt.Errorf("otp length %d out of range", length)
	}

	low := int64(1)
	for i := 1; i < length; i++ {
		low *= 10
	}

	n, err := rand.Int(rand.Reader, big.NewInt(low*10-low))
	if err != nil {
		return "", fmt.Errorf("draw otp: %w", err)
	}
	return strconv.FormatInt(low+n.Int64(), 10), nil
}
