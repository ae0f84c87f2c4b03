// SPDX-License-Identifier: MIT
package gitx

import (
	"context"
	"errors"
	"strings"

	"github.com/skaphos/pendector/internal/model"
)

// Rule maps fetch output to an error kind when Match reports true.
type Rule struct {
	Kind  model.ErrorKind
	Match func(msg string) bool
}

// Classifier evaluates rules in order; the first match wins. Anything
// unmatched is KindFetchFailed.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier from an ordered rule list.
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// DefaultClassifier returns the substring rules for git's English output.
func DefaultClassifier() *Classifier {
	return NewClassifier(
		Rule{Kind: model.KindRepositoryUnreachable, Match: ContainsAny(
			"repository not found",
			"does not appear to be a git repository",
			"no such remote",
			"remote ref does not exist",
		)},
		Rule{Kind: model.KindAuthenticationFailed, Match: ContainsAny(
			"authentication failed",
			"could not read from remote",
			"could not read username",
			"terminal prompts disabled",
			"permission denied",
			"access denied",
			"publickey",
			"invalid credentials",
		)},
		Rule{Kind: model.KindNetworkError, Match: ContainsAny(
			"network is unreachable",
			"temporary failure",
			"could not resolve host",
			"connection refused",
			"connection timed out",
			"failed to connect",
			"unable to access",
			"tls handshake timeout",
		)},
	)
}

// Classify returns the kind for a fetch failure message.
func (c *Classifier) Classify(msg string) model.ErrorKind {
	if c == nil {
		c = DefaultClassifier()
	}
	if strings.TrimSpace(msg) == "" {
		return model.KindFetchFailed
	}
	for _, rule := range c.rules {
		if rule.Match != nil && rule.Match(msg) {
			return rule.Kind
		}
	}
	return model.KindFetchFailed
}

// ClassifyError maps an error to a kind. Typed errors keep their kind;
// deadlines become KindTimeout; everything else is classified by message.
func ClassifyError(err error) model.ErrorKind {
	if err == nil {
		return ""
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.KindTimeout
	}
	return DefaultClassifier().Classify(err.Error())
}

// ContainsAny returns a case-insensitive substring predicate.
func ContainsAny(needles ...string) func(string) bool {
	lowered := make([]string, len(needles))
	for i, needle := range needles {
		lowered[i] = strings.ToLower(needle)
	}
	return func(msg string) bool {
		msg = strings.ToLower(msg)
		for _, needle := range lowered {
			if strings.Contains(msg, needle) {
				return true
			}
		}
		return false
	}
}
