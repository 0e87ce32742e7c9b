package service

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// RootVersion is the reference version: it keeps the source order of questions and answers.
const RootVersion = "000"

// GenerateCodes returns RootVersion followed by count version codes.
// Random codes are "1xx".."9xx", cycling the leading digit, unique and sorted;
// sequential codes count up from start*100+1.
func GenerateCodes(count int, mode string, start int, seed uint64) []string {
	codes := []string{RootVersion}
	if mode == ModeSequential {
		for i := 0; i < count; i++ {
			codes = append(codes, fmt.Sprintf("%03d", start*100+i+1))
		}
		return codes
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	seen := map[string]bool{RootVersion: true}
	for i := 0; i < count; i++ {
		for {
			code := fmt.Sprintf("%d%02d", i%9+1, rng.IntN(99))
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
				break
			}
		}
	}
	sort.Strings(codes)
	return codes
}
