package protocol

import (
	"fmt"
	"strings"
)

// Scheme derives the schema addresses of a command from its canonical name.
// Implementations must be deterministic.
type Scheme interface {
	Request(name string) string
	Response(name string) string
}

// DefaultWebNamespace is the namespace used by WebScheme when none is given.
const DefaultWebNamespace = "https://bowtie.report/io-schema/"

// WebScheme addresses schemas under an HTTP namespace:
//
//	https://bowtie.report/io-schema/start/
//	https://bowtie.report/io-schema/start/response/
type WebScheme struct {
	Namespace string
}

func (s WebScheme) namespace() string {
	ns := s.Namespace
	if ns == "" {
		ns = DefaultWebNamespace
	}
	if !strings.HasSuffix(ns, "/") {
		ns += "/"
	}
	return ns
}

func (s WebScheme) Request(name string) string {
	return s.namespace() + name + "/"
}

func (s WebScheme) Response(name string) string {
	return s.Request(name) + "response/"
}

// DefaultTagNamespace is the namespace used by TagScheme when none is given.
const DefaultTagNamespace = "tag:bowtie.report,2024:io:commands:"

// TagScheme addresses schemas with tag URIs (RFC 4151):
//
//	tag:bowtie.report,2024:io:commands:start
//	tag:bowtie.report,2024:io:commands:start:response
type TagScheme struct {
	Namespace string
}

func (s TagScheme) namespace() string {
	if s.Namespace == "" {
		return DefaultTagNamespace
	}
	return s.Namespace
}

func (s TagScheme) Request(name string) string {
	return s.namespace() + name
}

func (s TagScheme) Response(name string) string {
	return s.Request(name) + ":response"
}

// Scheme names accepted by SchemeNamed.
const (
	SchemeWeb = "web"
	SchemeTag = "tag"
)

// SchemeNamed returns the default scheme registered under name.
func SchemeNamed(name string) (Scheme, error) {
	switch name {
	case SchemeWeb, "":
		return WebScheme{}, nil
	case SchemeTag:
		return TagScheme{}, nil
	default:
		return nil, fmt.Errorf("unknown schema URI scheme %q (want %q or %q)", name, SchemeWeb, SchemeTag)
	}
}
