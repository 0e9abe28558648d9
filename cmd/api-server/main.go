package main

import (
	"github.com/AliMohammadiiii/PRS-sub001/internal/app"
)

func main() {
	application, err := app.Initialize("")
	if err != nil {
		panic(err)
	}

	app.StartServer(
		application.Config,
		application.Handlers,
		application.Services,
		application.Repos,
	)
}
