package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vzahanych/openweather-client/internal/client"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <city>",
	Short: "Fetch current weather for a city",
	Long:  `Fetch the current weather for a city in on-demand mode and print it as JSON. Results younger than the cache TTL are served from the cache without a network call.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	city := args[0]

	c, release, err := newRegisteredClient(client.ModeOnDemand)
	if err != nil {
		return err
	}
	defer release()

	snapshot := c.GetWeather(cmd.Context(), city)
	if snapshot == nil {
		return fmt.Errorf("no weather data available for %q", city)
	}

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
