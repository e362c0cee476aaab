package mqtt

import (
	"strings"
	"unicode"
)

// DefaultTopicPrefix heads every topic when no prefix is configured.
const DefaultTopicPrefix = "ets2hass"

// Topics builds the topics generated configuration is published on.
//
//	topics := mqtt.Topics{Prefix: "ets2hass"}
//	topics.Artifact("My House", "homeass")
//	// Returns: "ets2hass/my-house/homeass"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.Trim(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// Artifact returns the topic carrying a generated file.
//
// Example: ets2hass/my-house/homeass
func (t Topics) Artifact(project, format string) string {
	return t.prefix() + "/" + TopicLevel(project) + "/" + TopicLevel(format)
}

// ArtifactMeta returns the topic carrying a generated file's metadata.
//
// Example: ets2hass/my-house/homeass/meta
func (t Topics) ArtifactMeta(project, format string) string {
	return t.Artifact(project, format) + "/meta"
}

// AllArtifacts returns a subscription filter matching every artifact of
// every project.
//
// Example: ets2hass/+/+
func (t Topics) AllArtifacts() string {
	return t.prefix() + "/+/+"
}

// TopicLevel turns a free-form name into a single safe topic level:
// lower case, with every run of characters other than letters, digits,
// dot and underscore replaced by one hyphen. MQTT wildcards and the level
// separator can therefore never appear. An empty result becomes "unnamed".
func TopicLevel(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' {
			if pending {
				b.WriteByte('-')
				pending = false
			}
			b.WriteRune(r)
			continue
		}
		pending = b.Len() > 0
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}
