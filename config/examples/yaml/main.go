package main

import (
	"context"
	"fmt"
	"log"

	config "github.com/Aquamariss/case-check-city-snap/config"
	"github.com/Aquamariss/case-check-city-snap/llm"
	"github.com/Aquamariss/case-check-city-snap/llm/openai"
)

func main() {
	loader, err := config.Load("./config.yaml",
		config.WithEnv("CITYSNAP"),
	)
	if err != nil {
		log.Fatal(err)
	}

	loader.OnChange(func(old, new config.Config) {
		fmt.Printf("config changed: model %s -> %s\n", old.Model, new.Model)
	})

	cfg := loader.Get()
	client, err := openai.New(cfg.APIKey, cfg.ClientOptions()...)
	if err != nil {
		log.Fatal(err)
	}

	text, err := client.Generate(context.Background(), []llm.Message{
		llm.User("Describe this city in one JSON object."),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(text)
}
