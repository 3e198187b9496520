package service

import (
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(
		NewCatalog,
		NewMemes,
		NewDrafts,
		NewRedditClient,
		NewGiphyClient,
		NewAggregator,
	)
)
