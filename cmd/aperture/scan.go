package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chazu/aperture/pkg/clash"
	"github.com/chazu/aperture/pkg/geom"
	"github.com/chazu/aperture/pkg/kernel/sdfx"
	"github.com/chazu/aperture/pkg/model"
	"github.com/chazu/aperture/pkg/model/inmem"
	"github.com/chazu/aperture/pkg/opening"
)

func newScanCmd() *cobra.Command {
	var (
		scenePath    string
		settingsPath string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one placement batch over a scene file",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(verbose)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			runs, walls, floors, err := inmem.LoadScene(scenePath)
			if err != nil {
				return err
			}
			settings, err := loadSettings(settingsPath)
			if err != nil {
				return err
			}

			k := sdfx.New()
			finder := clash.NewFinder(k, inmem.NewGeometry(k), log)
			doc := inmem.NewDocument()
			engine := opening.NewEngine(finder, inmem.Frames{}, defaultCatalog(), doc, log)

			res := engine.Run(context.Background(), opening.BatchInput{
				Runs:     runs,
				Walls:    walls,
				Floors:   floors,
				Settings: settings,
			})
			printResult(res)
			if !res.Success {
				return fmt.Errorf("%s", res.ErrorMessage)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenePath, "scene", "scene.yaml", "scene file describing the federated sub-models")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "settings file (millimeters); defaults apply when omitted")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadSettings(path string) (opening.Settings, error) {
	if path == "" {
		return opening.DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opening.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var cfg opening.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return opening.Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	// Scene files are authored in millimeters.
	return opening.FromConfig(cfg, 1), nil
}

// defaultCatalog registers the four stock marker templates for every run
// category. Wall templates anchor on the box's bottom face, floor
// templates on its top face.
func defaultCatalog() *inmem.Catalog {
	cat := inmem.NewCatalog()
	templates := map[model.HostKind]map[model.SectionShape]*inmem.Template{
		model.HostWall: {
			model.SectionRectangular: {
				Path:         "templates/wall_rect.tpl",
				AnchorOffset: geom.Vec3{Z: -100},
				Params:       inmem.MarkerParams(),
			},
			model.SectionRound: {
				Path:         "templates/wall_round.tpl",
				AnchorOffset: geom.Vec3{Z: -100},
				Params:       inmem.MarkerParams(),
			},
		},
		model.HostFloor: {
			model.SectionRectangular: {
				Path:         "templates/floor_rect.tpl",
				AnchorOffset: geom.Vec3{Z: 75},
				Params:       inmem.MarkerParams(),
			},
			model.SectionRound: {
				Path:         "templates/floor_round.tpl",
				AnchorOffset: geom.Vec3{Z: 75},
				Params:       inmem.MarkerParams(),
			},
		},
	}
	categories := []model.RunCategory{
		model.CategoryPipe, model.CategoryDuct, model.CategoryTray, model.CategoryUnknown,
	}
	for host, byShape := range templates {
		for shape, tmpl := range byShape {
			for _, c := range categories {
				cat.Register(opening.TemplateKey{Host: host, Shape: shape, Category: c}, tmpl)
			}
		}
	}
	return cat
}

func printResult(res opening.BatchResult) {
	fmt.Println(res.Message)
	if res.ErrorMessage != "" {
		fmt.Println("error:", res.ErrorMessage)
	}
	for _, id := range res.DuplicateIdentities {
		fmt.Println("duplicate:", id)
	}
	for _, p := range res.Placements {
		if p.Err != nil {
			fmt.Printf("failed %s: %v\n", p.Identity, p.Err)
		}
	}
}
