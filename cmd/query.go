package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/nestor/internal/recommend"
)

// queryFlags holds the filter flags shared by recommend and trends.
type queryFlags struct {
	mode          string
	minPrice      float64
	maxPrice      float64
	schoolRating  float64
	bedrooms      int
	maxCrime      float64
	minHealthcare float64
}

func (f *queryFlags) register(cmd *cobra.Command) {
	d := recommend.DefaultParams()
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "filter mode: budget | bedrooms | crime | healthcare (default from config)")
	cmd.Flags().Float64Var(&f.minPrice, "min-price", d.MinPrice, "budget: minimum home price")
	cmd.Flags().Float64Var(&f.maxPrice, "max-price", d.MaxPrice, "budget: maximum home price")
	cmd.Flags().Float64Var(&f.schoolRating, "school-rating", d.SchoolRating, "minimum normalized school rating (1-10)")
	cmd.Flags().IntVar(&f.bedrooms, "bedrooms", d.Bedrooms, "bedrooms: exact bedroom count (1-5)")
	cmd.Flags().Float64Var(&f.maxCrime, "max-crime", d.MaxCrime, "crime: maximum normalized crime rate (1-10)")
	cmd.Flags().Float64Var(&f.minHealthcare, "min-healthcare", d.MinHealthcare, "healthcare: minimum healthcare access (1-10)")
}

// query starts from the configured defaults and applies explicitly set flags.
func (f *queryFlags) query(cmd *cobra.Command) (recommend.Query, error) {
	p := recommend.DefaultParams()
	if cfg != nil {
		p = cfg.Params()
	}
	fs := cmd.Flags()
	if fs.Changed("mode") {
		m, err := recommend.ParseMode(f.mode)
		if err != nil {
			return nil, err
		}
		p.Mode = m
	}
	if fs.Changed("min-price") {
		p.MinPrice = f.minPrice
	}
	if fs.Changed("max-price") {
		p.MaxPrice = f.maxPrice
	}
	if fs.Changed("school-rating") {
		p.SchoolRating = f.schoolRating
	}
	if fs.Changed("bedrooms") {
		p.Bedrooms = f.bedrooms
	}
	if fs.Changed("max-crime") {
		p.MaxCrime = f.maxCrime
	}
	if fs.Changed("min-healthcare") {
		p.MinHealthcare = f.minHealthcare
	}
	return p.Query()
}
