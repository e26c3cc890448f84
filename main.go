package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"auto_article_writer/agents"
	"auto_article_writer/config"
	"auto_article_writer/generator"
	"auto_article_writer/logging"
	"auto_article_writer/pipeline"
	"auto_article_writer/publisher"
	"auto_article_writer/server"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config.yaml")
	topic := flag.String("topic", "", "topic for the blog post")
	serve := flag.Bool("serve", false, "start web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides server.addr)")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	logger := logging.New(cfg.Log)
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	orch, err := buildPipeline(cfg, pipeline.NewMetrics("article_writer", reg), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Web server mode
	if *serve {
		srv, err := server.New(orch, reg, cfg.Server.RunTimeout, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.Server.Addr
		if *addr != "" {
			listen = *addr
		}
		logger.Info("starting web server", zap.String("addr", listen))
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *topic == "" {
		fmt.Fprintln(os.Stderr, "--topic is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	doc, err := orch.RunPipeline(ctx, *topic)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(doc)
}

func buildPipeline(cfg config.Config, metrics *pipeline.Metrics, logger *zap.Logger) (*pipeline.Orchestrator, error) {
	b, err := buildBackends(cfg, logger)
	if err != nil {
		return nil, err
	}
	return newPipeline(cfg, b, metrics, logger)
}

// backends are the external capabilities the stage workers call.
type backends struct {
	llm      generator.LLMClient
	image    generator.LLMClient
	searcher generator.Searcher
}

func buildBackends(cfg config.Config, logger *zap.Logger) (backends, error) {
	var b backends
	var err error
	if b.llm, err = buildLLM(cfg.LLM); err != nil {
		return backends{}, err
	}
	if cfg.Image.APIKey == "" {
		// ImageMaker reports an empty answer as no response; articles are saved without a cover.
		logger.Warn("image api key not set; articles will have no cover image")
		b.image = generator.StaticLLM("")
	} else if b.image, err = buildImage(cfg.Image); err != nil {
		return backends{}, err
	}
	if b.searcher, err = buildSearcher(cfg.Search); err != nil {
		return backends{}, err
	}
	if b.searcher == nil {
		logger.Warn("search api key not set; sections will be written without research")
	}
	return b, nil
}

func newPipeline(cfg config.Config, b backends, metrics *pipeline.Metrics, logger *zap.Logger) (*pipeline.Orchestrator, error) {
	p := cfg.Pipeline
	outliner, err := agents.NewOutliner(b.llm, p.OutlinePersona, logger)
	if err != nil {
		return nil, err
	}
	writer, err := agents.NewSectionWriter(b.llm, b.searcher, p.WriterPersona, cfg.Search.MaxResults, logger)
	if err != nil {
		return nil, err
	}
	reviewer, err := agents.NewReviewer(b.llm, p.ReviewerPersona, logger)
	if err != nil {
		return nil, err
	}
	imager, err := agents.NewImageMaker(b.image, p.ImagePersona, logger)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Stages{
		Outliner:   outliner,
		Writer:     writer,
		Reviewer:   reviewer,
		ImageMaker: imager,
		Assembler:  publisher.NewAssembler(cfg.Output.Dir, logger),
	}, pipeline.Options{
		Parallelism: p.Parallelism,
		Metrics:     metrics,
		Logger:      logger,
	})
}

func buildLLM(cfg config.LLMConfig) (generator.LLMClient, error) {
	if cfg.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}
	switch cfg.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(settings(cfg))
	case "dashscope", "deepseek":
		// OpenAI 兼容接口，需填写 base_url。
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider %s requires base_url (OpenAI-compatible endpoint)", cfg.Provider)
		}
		return generator.NewOpenAILLMFromConfig(settings(cfg))
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

func buildImage(cfg config.LLMConfig) (generator.LLMClient, error) {
	switch cfg.Provider {
	case "openai", "":
		return generator.NewOpenAIImageLLMFromConfig(settings(cfg))
	default:
		return nil, fmt.Errorf("image provider %s not supported", cfg.Provider)
	}
}

// buildSearcher returns nil without error when no key is configured.
func buildSearcher(cfg config.SearchConfig) (generator.Searcher, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case "tavily", "":
		return generator.NewTavilySearcher(cfg.APIKey, generator.TavilyOptions{
			BaseURL:       cfg.BaseURL,
			Depth:         cfg.Depth,
			RatePerMinute: cfg.RatePerMinute,
		})
	default:
		return nil, fmt.Errorf("search provider %s not supported", cfg.Provider)
	}
}

func settings(cfg config.LLMConfig) *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
	}
}
