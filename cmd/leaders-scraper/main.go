package main

import (
	"leaders-scraper/cmd/leaders-scraper/commands"
	"leaders-scraper/internal/components/serviceutil"
	"leaders-scraper/internal/components/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	commands.ExecuteContext(serviceutil.SignalContext())
}
