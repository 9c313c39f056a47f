package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/harshpasiya/Zodic-bot/internal/app"
)

func main() {
	// ローカル開発用に.envを読み込む。存在しなくてもエラーにしない。
	_ = godotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
