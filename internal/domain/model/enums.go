package model

// Channel identifies a chat system that receives the merge request summary.
type Channel string

const (
	ChannelSlack Channel = "slack"
	ChannelTeams Channel = "teams"
)

// Channels lists every supported channel in delivery order.
var Channels = []Channel{ChannelSlack, ChannelTeams}
