// Package sharecode hands out short, human-typeable codes for shared course
// lists and resolves them back.
package sharecode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

// Alphabet leaves out characters that are easy to confuse when read aloud or copied
const Alphabet = "234679QWERTYUPADFGHX"

// CodeLength is the number of characters in a code
const CodeLength = 7

// Registry is a bijection between codes and normalized course lists.
// All methods are safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	codes  map[string]course.SharedCourseList
	hashes map[string]string
	intn   func(n int) int
}

// NewRegistry returns an empty registry drawing codes from math/rand
func NewRegistry() *Registry {
	return &Registry{
		codes:  make(map[string]course.SharedCourseList),
		hashes: make(map[string]string),
		intn:   rand.Intn,
	}
}

// Assign returns the code for list, creating one if the list is new.
// Equal lists (after sorting) always receive the same code.
func (r *Registry) Assign(list course.SharedCourseList) (string, error) {
	normalized := list.Normalized()
	hash, err := fingerprint(normalized)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if code, ok := r.hashes[hash]; ok {
		return code, nil
	}

	code := r.generate()
	for {
		if _, taken := r.codes[code]; !taken {
			break
		}
		code = r.generate()
	}

	r.insert(code, hash, normalized)
	return code, nil
}

// Lookup resolves a code. Codes are case-insensitive.
func (r *Registry) Lookup(code string) (course.SharedCourseList, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))

	r.mu.Lock()
	list, ok := r.codes[code]
	r.mu.Unlock()

	if !ok {
		return course.SharedCourseList{}, false
	}
	return course.SharedCourseList{
		LocalCourses:  course.CloneCourses(list.LocalCourses),
		CustomCourses: course.CloneCourses(list.CustomCourses),
	}, true
}

// Len returns the number of registered codes
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.codes)
}

// Entries returns a copy of every code and its list, for persistence
func (r *Registry) Entries() map[string]course.SharedCourseList {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]course.SharedCourseList, len(r.codes))
	for code, list := range r.codes {
		out[code] = course.SharedCourseList{
			LocalCourses:  course.CloneCourses(list.LocalCourses),
			CustomCourses: course.CloneCourses(list.CustomCourses),
		}
	}
	return out
}

// Load adds persisted entries. An entry whose list already has a code is
// skipped so the registry stays one-to-one. It returns the number skipped.
func (r *Registry) Load(entries map[string]course.SharedCourseList) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	skipped := 0
	for code, list := range entries {
		code = strings.ToUpper(code)
		normalized := list.Normalized()
		hash, err := fingerprint(normalized)
		if err != nil {
			skipped++
			continue
		}
		_, codeTaken := r.codes[code]
		_, listTaken := r.hashes[hash]
		if codeTaken || listTaken {
			skipped++
			continue
		}
		r.insert(code, hash, normalized)
	}
	return skipped
}

// insert is the only place the two maps are written
func (r *Registry) insert(code, hash string, list course.SharedCourseList) {
	r.codes[code] = list
	r.hashes[hash] = code
}

func (r *Registry) generate() string {
	var b strings.Builder
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(Alphabet[r.intn(len(Alphabet))])
	}
	return b.String()
}

func fingerprint(normalized course.SharedCourseList) (string, error) {
	data, err := normalized.Fingerprint()
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint course list: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
