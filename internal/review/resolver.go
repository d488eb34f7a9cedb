package review

import "context"

// Option is one entry of a lookup list shown by the review screen.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resolver supplies the lookup lists the screen classifies against:
// counterparties (suppliers and clients together) and categories.
type Resolver interface {
	Counterparties(ctx context.Context) ([]Option, error)
	Categories(ctx context.Context) ([]Option, error)
}

type nameMaps struct {
	counterparties map[string]string
	categories     map[string]string
}

func (c *Controller) resolveNames(ctx context.Context) (nameMaps, error) {
	counterparties, err := c.resolver.Counterparties(ctx)
	if err != nil {
		return nameMaps{}, err
	}
	categories, err := c.resolver.Categories(ctx)
	if err != nil {
		return nameMaps{}, err
	}

	maps := nameMaps{
		counterparties: make(map[string]string, len(counterparties)),
		categories:     make(map[string]string, len(categories)),
	}
	for _, opt := range counterparties {
		maps.counterparties[opt.ID] = opt.Name
	}
	for _, opt := range categories {
		maps.categories[opt.ID] = opt.Name
	}
	return maps, nil
}
