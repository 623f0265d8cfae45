package main

import (
	"github.com/corray333/atlas-cafe/internal/app"
	"github.com/corray333/atlas-cafe/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
