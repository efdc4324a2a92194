package main

import (
	"github.com/anoixa/imgdrop/cmd"
	"github.com/anoixa/imgdrop/config"
	log "github.com/sirupsen/logrus"
)

// @title                       imgdrop API
// @version                     1.0
// @description                 Minimal image hosting: authenticated upload, public retrieval by id.
// @BasePath                    /
// @securityDefinitions.apikey  SharedSecret
// @in                          header
// @name                        Authorization
func main() {
	log.Printf("imgdrop %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
