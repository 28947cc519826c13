package handlers

import (
	"context"
	"fmt"

	"newsblog/internal/cache"
	"newsblog/internal/config"
	"newsblog/internal/images"
	"newsblog/internal/llm"
	"newsblog/internal/logger"
	"newsblog/internal/news"
	"newsblog/internal/pipeline"
	"newsblog/internal/publish"
)

// newSearcher builds the Naver client behind the search cache.
func newSearcher(ctx context.Context, c *config.Config) (news.Searcher, error) {
	if err := c.ValidateForSearch(); err != nil {
		return nil, err
	}

	opts := []news.NaverOption{news.WithDisplay(c.Naver.Display)}
	if c.Naver.BaseURL != "" {
		opts = append(opts, news.WithBaseURL(c.Naver.BaseURL))
	}
	if c.Naver.Sort != "" {
		opts = append(opts, news.WithSort(c.Naver.Sort))
	}

	client, err := news.NewNaverClient(c.Naver.ClientID, c.Naver.ClientSecret, opts...)
	if err != nil {
		return nil, err
	}
	return news.NewCachedSearcher(client, cache.New(ctx, c.Cache.RedisURL), c.NewsTTL()), nil
}

// newGenerator returns the Gemini client. A missing key is an error.
func newGenerator(ctx context.Context, c *config.Config) (*llm.Client, error) {
	if c.Gemini.APIKey == "" {
		return nil, llm.ErrMissingAPIKey
	}
	return llm.NewClient(ctx, llm.Options{
		APIKey:  c.Gemini.APIKey,
		Model:   c.Gemini.Model,
		BaseURL: c.Gemini.BaseURL,
	})
}

func newResolver(c *config.Config) *images.Resolver {
	r := images.FromKeys(c.Images.UnsplashKey, c.Images.PixabayKey)
	if !r.Configured() {
		logger.Info("No image provider configured; image markers will be removed")
	}
	return r
}

// newPipeline wires every stage from configuration.
func newPipeline(ctx context.Context, c *config.Config) (*pipeline.Pipeline, *llm.Client, error) {
	searcher, err := newSearcher(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	generator, err := newGenerator(ctx, c)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.NewBuilder().
		WithSearcher(searcher).
		WithGenerator(generator).
		WithImageResolver(newResolver(c)).
		WithTimeout(c.PipelineTimeout()).
		WithPerKeyword(c.Images.PerKeyword).
		WithMarkerStyle(images.ParseStyle(c.Images.MarkerStyle)).
		Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	return p, generator, nil
}

// newPublishers returns the local directory publisher, plus S3 when asked.
func newPublishers(ctx context.Context, c *config.Config, outputDir string, toS3 bool) ([]publish.Publisher, error) {
	if outputDir == "" {
		outputDir = c.Output.Directory
	}
	pubs := []publish.Publisher{publish.NewDir(outputDir)}
	if !toS3 {
		return pubs, nil
	}

	if c.Publish.S3Bucket == "" {
		return nil, fmt.Errorf("--publish requires an S3 bucket; set NEWSBLOG_S3_BUCKET or publish.s3_bucket")
	}
	s3p, err := publish.NewS3(ctx, publish.S3Config{
		Bucket:       c.Publish.S3Bucket,
		Prefix:       c.Publish.S3Prefix,
		Region:       c.Publish.Region,
		UsePathStyle: c.Publish.UsePathStyle,
	})
	if err != nil {
		return nil, err
	}
	return append(pubs, s3p), nil
}
