package agent

import (
	"bytes"
	"encoding/json"
	"errors"
)

// errNullProfile rejects a literal null where a profile object is required
var errNullProfile = errors.New("profile is null")

// MessageRequest is the body of POST /message
type MessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse is the body returned by POST /message
type MessageResponse struct {
	Response string `json:"response"`
}

// welcomeResponse is the body returned by GET /
type welcomeResponse struct {
	Message string `json:"message"`
}

// errorResponse is the FastAPI-style body sent with non-2xx statuses
type errorResponse struct {
	Detail string `json:"detail"`
}

// Profile describes the agent ("being") configured on the backend.
// It is read-only on the client side.
type Profile struct {
	Name             string   `json:"name"`
	Bio              string   `json:"bio"`
	Personality      string   `json:"personality"`
	ModelProvider    string   `json:"modelProvider"`
	ContextID        string   `json:"contextId"`
	System           string   `json:"system"`
	Knowledge        []string `json:"knowledge"`
	ExampleResponses []string `json:"exampleResponses"`
}

// wireProfile accepts the shapes older backends emit: the misspelled
// "knowlege" key and character fields nested under "character".
type wireProfile struct {
	Name             string    `json:"name"`
	Bio              string    `json:"bio"`
	Personality      string    `json:"personality"`
	ModelProvider    string    `json:"modelProvider"`
	ContextID        string    `json:"contextId"`
	System           string    `json:"system"`
	Knowledge        *[]string `json:"knowledge"`
	Knowlege         []string  `json:"knowlege"`
	ExampleResponses []string  `json:"exampleResponses"`
	Character        *struct {
		Name        string `json:"name"`
		Bio         string `json:"bio"`
		Personality string `json:"personality"`
	} `json:"character"`
}

// UnmarshalJSON decodes a profile, normalizing legacy keys and nil lists
func (p *Profile) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullProfile
	}

	var w wireProfile
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = Profile{
		Name:             w.Name,
		Bio:              w.Bio,
		Personality:      w.Personality,
		ModelProvider:    w.ModelProvider,
		ContextID:        w.ContextID,
		System:           w.System,
		ExampleResponses: w.ExampleResponses,
	}

	if w.Character != nil {
		if p.Name == "" {
			p.Name = w.Character.Name
		}
		if p.Bio == "" {
			p.Bio = w.Character.Bio
		}
		if p.Personality == "" {
			p.Personality = w.Character.Personality
		}
	}

	if w.Knowledge != nil {
		p.Knowledge = *w.Knowledge
	} else {
		p.Knowledge = w.Knowlege
	}

	if p.Knowledge == nil {
		p.Knowledge = []string{}
	}
	if p.ExampleResponses == nil {
		p.ExampleResponses = []string{}
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias the loader's lists
func (p Profile) Clone() Profile {
	out := p
	out.Knowledge = append([]string{}, p.Knowledge...)
	out.ExampleResponses = append([]string{}, p.ExampleResponses...)
	return out
}
