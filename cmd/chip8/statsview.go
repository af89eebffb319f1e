package main

import (
	"log"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const statsAddress = "localhost:12600"
const statsUrl = "/debug/statsview"

// launchStats serves the runtime statistics from a new goroutine.
func launchStats() {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(statsAddress))
		mgr := statsview.New()
		mgr.Start()
	}()

	log.Printf("stats server available at http://%v%v", statsAddress, statsUrl)
}
