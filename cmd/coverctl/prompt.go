package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coverserver/internal/infra"
	imageprov "coverserver/internal/providers/image"
)

func newPromptCmd() *cobra.Command {
	var (
		flags   catalogFlags
		id      int
		name    string
		title   string
		variant string
		seed    uint64
		withURL bool
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the image prompt built for a catalog category",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := imageprov.ParseVariant(variant)
			if err != nil {
				return err
			}
			cat, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			if name == "" {
				c, ok := cat.Lookup(id)
				if !ok {
					return fmt.Errorf("unknown category id %d", id)
				}
				name = c.Name
			}
			c, err := cat.Validate(id, name)
			if err != nil {
				return err
			}
			rnd := infra.NewRand(seed)
			text := imageprov.NewPromptBuilder(rnd).Build(v, c, title, name)
			printf(cmd, "%s\n", text)
			if withURL {
				p := imageprov.DefaultParams()
				if v == imageprov.VariantLegacy {
					p.Width, p.Height = imageprov.LegacyWidth, imageprov.LegacyHeight
				}
				g := imageprov.NewPollinationsGenerator(imageprov.PollinationsOptions{BaseURL: baseURL(), Rand: rnd})
				printf(cmd, "\n%s\n", g.BuildURL(text, p))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&id, "id", 1, "category id")
	cmd.Flags().StringVar(&name, "name", "", "category name; defaults to the catalog name for --id")
	cmd.Flags().StringVar(&title, "title", "", "document title")
	cmd.Flags().StringVar(&variant, "variant", string(imageprov.VariantWithText), "with_text, no_text or legacy")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for element and style selection; 0 is time based")
	cmd.Flags().BoolVar(&withURL, "url", false, "also print the image URL (no request is made)")
	return cmd
}

func baseURL() string {
	if v := getenv("IMAGE_BASE_URL"); v != "" {
		return v
	}
	return imageprov.DefaultBaseURL
}
