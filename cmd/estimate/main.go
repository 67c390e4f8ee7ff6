package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"estateprice/artifacts"
	"estateprice/config"
	"estateprice/estimate"
	"estateprice/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	location := flag.String("location", "", "property location")
	sqft := flag.Float64("sqft", 1000, "total area in square feet")
	bhk := flag.Int("bhk", 2, "bedroom count")
	bath := flag.Int("bath", 2, "bathroom count")
	list := flag.Bool("list", false, "print known locations and exit")
	verbose := flag.Bool("v", false, "log artifact loading")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.Nop()
	if *verbose {
		logger = logging.New(logging.Options{Level: "debug"})
	}

	store := artifacts.NewStore(cfg.Artifacts.ColumnsPath, cfg.Artifacts.ModelPath, cfg.Artifacts.ModelType,
		artifacts.WithLogger(logger))
	if err := store.Load(); err != nil {
		log.Fatalf("failed to load artifacts: %v", err)
	}
	svc := estimate.NewService(store, estimate.WithFormatter(estimate.Formatter{
		Prefix:    cfg.Format.Prefix,
		LargeUnit: cfg.Format.LargeLabel,
		SmallUnit: cfg.Format.SmallLabel,
	}))

	if *list {
		locations, err := svc.Locations()
		if err != nil {
			log.Fatalf("failed to list locations: %v", err)
		}
		for _, l := range locations {
			fmt.Println(l)
		}
		fmt.Fprintf(os.Stderr, "%d locations\n", len(locations))
		return
	}

	if *location == "" {
		log.Fatal("location is required")
	}

	result, err := svc.Predict(context.Background(), estimate.Query{
		Location:  *location,
		Area:      *sqft,
		Bedrooms:  *bhk,
		Bathrooms: *bath,
	})
	if err != nil {
		log.Fatalf("prediction failed: %v", err)
	}
	fmt.Println(result.Formatted)
	if !result.LocationFound {
		fmt.Fprintf(os.Stderr, "warning: location %q not in schema, estimate uses no location feature\n", *location)
	}
}
