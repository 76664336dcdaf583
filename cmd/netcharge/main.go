package main

import (
	"github.com/netcharge/netcharge/internal/server"
	"go.uber.org/fx"
)

func main() {
	fx.New(server.Module).Run()
}
