package shader

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"sync"
)

// Fingerprint identifies the checking policy: rule order, patterns, domain
// tables and messages. Results computed under one fingerprint must not be
// reused under another.
func Fingerprint() string { return fingerprint() }

var fingerprint = sync.OnceValue(func() string {
	h := sha256.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.Write([]byte(p))
			_, _ = h.Write([]byte{0})
		}
	}

	for _, r := range rules {
		write(r.Name, strconv.FormatBool(r.RequiresSemicolon))
	}
	for _, re := range []*regexp.Regexp{
		directiveRE, controlHeaderRE, structOpenRE, functionDefRE,
		comparisonRE, returnRE, callTailRE, shaderTypeDeclRE, entryPointDeclRE,
	} {
		write(re.String())
	}
	write(entryPoints...)
	for _, st := range shaderTypes {
		write(st, Hint(st))
		write(expectedEntryPoints[st]...)
	}
	write(Hint(""), msgShaderType, msgTerminator)
	return hex.EncodeToString(h.Sum(nil)[:8])
})
