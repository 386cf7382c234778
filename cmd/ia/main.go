package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/adapter"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/agent"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/artifact"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/config"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/router"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/selector"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/server"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/workflow"
)

var rulesFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ia",
		Short: "Keyword-routed multi-agent front end with capability-based model selection",
		Long: `ia routes free-text queries to one of four agent personas (security,
	writer, advisor, legal) by keyword scoring, then selects the cheapest
	remote model satisfying the persona's capability requirement from a
	cached catalog.`,
	}

	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "path to routing rules file")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(selectCmd())
	rootCmd.AddCommand(phasesCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if rulesFile != "" {
		return config.LoadWithRulesFile(rulesFile)
	}
	return config.Load()
}

// components is the dependency-injection root: everything is constructed
// here, after configuration is fully loaded.
type components struct {
	router   *router.Router
	catalog  *catalog.Client // nil in fallback mode
	selector *selector.Selector
	resolver *workflow.Resolver
	runner   *agent.Runner
}

func buildComponents(cfg *config.Config) (*components, error) {
	provider, err := cfg.Provider()
	if err != nil {
		return nil, err
	}

	c := &components{router: router.New(cfg.Rules)}

	adapters := make(map[string]adapter.Adapter)
	var defaultAdapter string

	switch provider {
	case config.ProviderOpenRouter:
		var catalogOpts []catalog.ClientOption
		if cfg.CatalogBaseURL != "" {
			catalogOpts = append(catalogOpts, catalog.WithBaseURL(cfg.CatalogBaseURL))
		}
		c.catalog = catalog.NewClient(cfg.OpenRouterAPIKey, catalogOpts...)
		c.selector = selector.New(c.catalog)

		or, err := adapter.NewOpenRouterAdapter(cfg.OpenRouterAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[or.Name()] = or
		defaultAdapter = or.Name()

		if cfg.GoogleAPIKey != "" {
			g, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
			if err != nil {
				return nil, err
			}
			adapters[g.Name()] = g
		}

	case config.ProviderAnthropic:
		c.selector = selector.New(selector.NewStaticSource(selector.AnthropicFallback()))

		an, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[an.Name()] = an
		defaultAdapter = an.Name()
	}

	c.resolver = workflow.NewResolver(workflow.DefaultRegistry(), c.selector)

	// Only the OpenRouter gateway accepts full catalog identifiers; native
	// adapters (including a native default in fallback mode) get short names.
	var dispatchOpts []agent.DispatcherOption
	if provider == config.ProviderOpenRouter {
		dispatchOpts = append(dispatchOpts, agent.WithPassthrough(defaultAdapter))
	}
	c.runner = agent.NewRunner(c.resolver, agent.NewDispatcher(adapters, defaultAdapter, dispatchOpts...))
	return c, nil
}

func askCmd() *cobra.Command {
	var agentFlag string
	var phaseFlag string
	var saveFlag bool

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Route a query to an agent persona and print the answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			c, err := buildComponents(cfg)
			if err != nil {
				return err
			}

			persona := agentFlag
			if persona == "" {
				if decision := c.router.Route(query); decision != nil {
					persona = decision.Persona
					fmt.Fprintf(os.Stderr, "Routing to %s (confidence %.2f, matched: %s)\n",
						decision.Persona, decision.Confidence, decision.Reason)
				} else {
					persona = agent.DirectorPersona
					fmt.Fprintf(os.Stderr, "No route matched; using %s\n", persona)
				}
			}

			result, err := c.runner.Execute(context.Background(), persona, phaseFlag, query)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Model: %s\n", result.Model.ID)
			fmt.Println(result.Response.Artifact.Content)

			if saveFlag {
				store, err := artifact.NewStore("")
				if err != nil {
					return fmt.Errorf("failed to open artifact store: %w", err)
				}
				path, err := store.Save(result.Response.Artifact.WithMetadata("agent", result.Agent))
				if err != nil {
					return fmt.Errorf("failed to save artifact: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Saved: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agentFlag, "agent", "", "override persona (security, writer, advisor, legal)")
	cmd.Flags().StringVar(&phaseFlag, "phase", "", "workflow phase to resolve the model from")
	cmd.Flags().BoolVar(&saveFlag, "save", false, "persist the generated artifact to the local store")

	return cmd
}

func routeCmd() *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "route [text]",
		Short: "Show the routing decision for a text without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			r := router.New(cfg.Rules)

			if allFlag {
				candidates := r.TestRoute(args[0])
				if len(candidates) == 0 {
					fmt.Println("no persona matched")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "PERSONA\tSCORE\tMATCHED")
				for _, cand := range candidates {
					fmt.Fprintf(w, "%s\t%d\t%s\n", cand.Persona, cand.Score, strings.Join(cand.Matched, ", "))
				}
				return w.Flush()
			}

			decision := r.Route(args[0])
			if decision == nil {
				fmt.Printf("no match; fallback persona: %s\n", agent.DirectorPersona)
				return nil
			}
			fmt.Printf("persona: %s\nscore: %d\nconfidence: %.2f\nmatched: %s\n",
				decision.Persona, decision.Score, decision.Confidence, decision.Reason)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "show all nonzero-scoring personas")

	return cmd
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the routing rule table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PERSONA\tKEYWORDS")
			for _, rule := range router.New(cfg.Rules).Rules() {
				fmt.Fprintf(w, "%s\t%s\n", rule.Persona, strings.Join(rule.Keywords, ", "))
			}
			return w.Flush()
		},
	}
}

func modelsCmd() *cobra.Command {
	var capabilityFlag string
	var providerFlag string
	var minContextFlag int

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List catalog models satisfying a capability requirement",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			c, err := buildComponents(cfg)
			if err != nil {
				return err
			}

			models, err := c.selector.FindModelComparison(context.Background(), selector.Requirement{
				Capability:        capabilityFlag,
				PreferredProvider: providerFlag,
				MinContextLength:  minContextFlag,
			})
			if err != nil {
				return err
			}
			if len(models) == 0 {
				fmt.Println("no models satisfy the requirement")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCONTEXT\tPROMPT $/TOK\tCOMPLETION $/TOK")
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%d\t%.8f\t%.8f\n", m.ID, m.ContextLength, m.Pricing.Prompt, m.Pricing.Completion)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&capabilityFlag, "capability", selector.CapabilityTextGeneration, "capability tag")
	cmd.Flags().StringVar(&providerFlag, "provider", "", "preferred provider prefix")
	cmd.Flags().IntVar(&minContextFlag, "min-context", 0, "minimum context length")

	return cmd
}

func selectCmd() *cobra.Command {
	var providerFlag string
	var minContextFlag int

	cmd := &cobra.Command{
		Use:   "select [capability]",
		Short: "Pick the cheapest model satisfying a capability requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			c, err := buildComponents(cfg)
			if err != nil {
				return err
			}

			model, err := c.selector.FindModel(context.Background(), selector.Requirement{
				Capability:        args[0],
				PreferredProvider: providerFlag,
				MinContextLength:  minContextFlag,
			})
			if err != nil {
				return err
			}
			if model == nil {
				fmt.Println("no model satisfies the requirement")
				return nil
			}

			fmt.Printf("id: %s\nname: %s\ncontext: %d\ncombined cost: %.8f $/tok\n",
				model.ID, model.Name, model.ContextLength, model.CombinedCost())
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFlag, "provider", "", "preferred provider prefix")
	cmd.Flags().IntVar(&minContextFlag, "min-context", 0, "minimum context length")

	return cmd
}

func phasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phases [skill]",
		Short: "Show workflow phases, optionally for one skill",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := workflow.DefaultRegistry()

			skills := registry.Skills()
			if len(args) == 1 {
				skills = []string{args[0]}
			}
			sort.Strings(skills)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SKILL\tPHASE\tCAPABILITY\tCOMPARISON")
			for _, skill := range skills {
				for _, phase := range registry.Phases(skill) {
					secondary := "-"
					if phase.Secondary != nil {
						secondary = phase.Secondary.Capability
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", phase.Skill, phase.Name, phase.Primary.Capability, secondary)
				}
			}
			return w.Flush()
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			c, err := buildComponents(cfg)
			if err != nil {
				return err
			}

			logger, err := buildLogger(debug)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			defer logger.Sync()

			srv := server.New(server.Deps{
				Logger:   logger.Sugar(),
				Router:   c.router,
				Runner:   c.runner,
				Selector: c.selector,
				Resolver: c.resolver,
				Catalog:  c.catalog,
			})
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose development logging")

	return cmd
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
