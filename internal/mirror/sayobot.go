package mirror

// Sayobot is the sayobot.cn mirror. server=auto lets it pick the closest node.
var Sayobot = Variant{
	Name:        "sayobot",
	DisplayName: "sayobot.cn",
	BaseURL:     "https://txy1.sayobot.cn/beatmaps/download/full",
	PathFormat:  "/%d?server=auto",
	ErrorKeys:   []string{"message"},
}
