package application

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
)

// SlackMessage is the body accepted by a Slack incoming webhook.
type SlackMessage struct {
	Text string `json:"text"`
}

// TeamsMessage is the body accepted by a Teams incoming webhook connector.
type TeamsMessage struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// payloadBuilder renders the payload for one channel.
type payloadBuilder func(salutation string, mrs []model.MergeRequest) any

// payloadBuilders maps each channel to its payload shape.
var payloadBuilders = map[model.Channel]payloadBuilder{
	model.ChannelSlack: func(salutation string, mrs []model.MergeRequest) any {
		return NewSlackMessage(salutation, mrs)
	},
	model.ChannelTeams: func(salutation string, mrs []model.MergeRequest) any {
		return NewTeamsMessage(salutation, mrs)
	},
}

// NewSlackMessage puts the salutation on the first line followed by one
// mrkdwn line per merge request.
func NewSlackMessage(salutation string, mrs []model.MergeRequest) SlackMessage {
	lines := make([]string, 0, len(mrs))
	for _, mr := range mrs {
		lines = append(lines, fmt.Sprintf("<%s|%s> by %s opened on *%s*. Upvotes: %d",
			mr.WebURL, mr.Title, mr.Author, mr.CreatedAt, mr.Upvotes))
	}
	return SlackMessage{Text: salutation + "\n" + strings.Join(lines, "\n")}
}

// NewTeamsMessage uses the salutation as the card title and one markdown
// line per merge request as the text.
func NewTeamsMessage(salutation string, mrs []model.MergeRequest) TeamsMessage {
	lines := make([]string, 0, len(mrs))
	for _, mr := range mrs {
		lines = append(lines, fmt.Sprintf("[%s](%s) by %s opened on __%s__. Upvotes: %d",
			mr.Title, mr.WebURL, mr.Author, mr.CreatedAt, mr.Upvotes))
	}
	return TeamsMessage{Title: salutation, Text: strings.Join(lines, "\n")}
}
