package cli

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finsuite/mlacs"
	"github.com/finsuite/mlacs/core"
	"github.com/finsuite/mlacs/logging"
	"github.com/finsuite/mlacs/security"
)

var (
	demoAgents        int
	demoMessages      int
	demoSecurityLevel string
	demoLogLevel      string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Boot the framework, drive message traffic and print health",
	Long: "Registers a set of echo agents, routes prioritized messages between them,\n" +
		"fans out a broadcast and prints the resulting health and performance snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🤖 MLACS Demo")
		if err := runDemo(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	demoCmd.Flags().IntVar(&demoAgents, "agents", 3, "number of echo agents to register")
	demoCmd.Flags().IntVar(&demoMessages, "messages", 12, "number of messages to route")
	demoCmd.Flags().StringVar(&demoSecurityLevel, "security-level", "standard", "security level (minimal|standard|enhanced|maximum)")
	demoCmd.Flags().StringVar(&demoLogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
}

// demoAgent counts deliveries so the traffic summary has something to show.
type demoAgent struct {
	id       string
	name     string
	received atomic.Int64
}

func newDemoAgent(i int) *demoAgent {
	return &demoAgent{id: core.NewID(), name: fmt.Sprintf("EchoAgent-%d", i+1)}
}

func (a *demoAgent) ID() string                       { return a.id }
func (a *demoAgent) Info() core.AgentInfo             { return core.AgentInfo{Name: a.name, Type: "echo"} }
func (a *demoAgent) Activate(context.Context) error   { return nil }
func (a *demoAgent) Deactivate(context.Context) error { return nil }

func (a *demoAgent) HandleMessage(_ context.Context, _ core.Message) error {
	a.received.Add(1)
	return nil
}

func parseLogLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LogLevelDebug
	case "info":
		return logging.LogLevelInfo
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelWarn
	}
}

func runDemo(ctx context.Context) error {
	var level security.Level
	if err := level.Decode(demoSecurityLevel); err != nil {
		return err
	}

	cfg := mlacs.DefaultConfig
	cfg.SecurityLevel = level

	framework := mlacs.New(func(o *mlacs.Options) {
		o.Config = cfg
		o.Logger = logging.NewSlogLogger(parseLogLevel(demoLogLevel), "text", false)
	})
	if err := framework.Initialize(ctx); err != nil {
		return err
	}
	defer framework.Shutdown(ctx)

	agents := make([]*demoAgent, demoAgents)
	for i := range agents {
		agents[i] = newDemoAgent(i)
		if err := framework.RegisterAgent(ctx, agents[i]); err != nil {
			return err
		}
	}

	priorities := []core.Priority{core.PriorityLow, core.PriorityNormal, core.PriorityHigh, core.PriorityCritical}
	for i := 0; i < demoMessages; i++ {
		sender := agents[i%len(agents)]
		receiver := agents[(i+1)%len(agents)]
		msg := core.NewMessage(sender.ID(), receiver.ID(), core.MessageTypeTask, core.Payload{
			"action":   core.String("process-item"),
			"sequence": core.Int(int64(i)),
		}, priorities[i%len(priorities)])
		if err := framework.SendMessage(ctx, msg); err != nil {
			return err
		}
	}

	announcement := core.NewMessage(agents[0].ID(), "", core.MessageTypeBroadcast, core.Payload{
		"event": core.String("demo-complete"),
	}, core.PriorityHigh)
	if err := framework.BroadcastMessage(ctx, announcement); err != nil {
		fmt.Printf("Broadcast: %s partial failures: %v\n", statusMark(false), err)
	}

	printSummary(framework, agents)
	return nil
}

func printSummary(framework *mlacs.Framework, agents []*demoAgent) {
	fmt.Println(color.CyanString("Agents"))
	for _, a := range agents {
		fmt.Printf("  %-14s %d received\n", a.name, a.received.Load())
	}

	health := framework.CheckHealth()
	fmt.Println(color.CyanString("Health"))
	fmt.Printf("  Healthy:       %s\n", statusMark(health.IsHealthy))
	fmt.Printf("  Active Agents: %d\n", health.ActiveAgents)
	fmt.Printf("  Queue Size:    %d\n", health.QueueSize)
	fmt.Printf("  Error Count:   %d\n", health.ErrorCount)

	metrics := framework.SampleMetrics()
	fmt.Println(color.CyanString("Performance"))
	fmt.Printf("  Messages:      %d total, %.2f/s\n", metrics.TotalMessages, metrics.MessagesPerSecond)
	fmt.Printf("  Avg Latency:   %s\n", metrics.AverageLatency)
	fmt.Printf("  Error Rate:    %.1f%%\n", metrics.ErrorRate*100)
	fmt.Printf("  CPU / Memory:  %.1f%% / %.1f%%\n", metrics.CPUUsage*100, metrics.MemoryUsage*100)

	events := framework.SecurityEvents()
	fmt.Println(color.CyanString("Security"))
	fmt.Printf("  Audit Events:  %d\n", len(events))

	fmt.Printf("  Comm Log:      %d entries\n", len(framework.CommunicationLog()))
}
