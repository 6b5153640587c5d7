// cmd/cparty/main.go
package main

import (
	"cparty/internal/app"
	"cparty/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
