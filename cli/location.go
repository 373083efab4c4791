package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"blogicum/models"
	"blogicum/services"

	"github.com/spf13/cobra"
)

var locationUnpublished bool

var locationsCmd = &cobra.Command{
	Use:     "locations",
	Aliases: []string{"location"},
	Short:   "Manage post locations",
}

var locationCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		published := !locationUnpublished
		req := &models.CreateLocationRequest{Name: args[0], IsPublished: &published}
		if err := models.NewValidator().Struct(req); err != nil {
			return fmt.Errorf("invalid location: %w", err)
		}

		svc, err := locationService()
		if err != nil {
			return err
		}
		location, err := svc.Create(req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created location %q (id %d)\n", location.Name, location.ID)
		return nil
	},
}

var locationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := locationService()
		if err != nil {
			return err
		}
		locations, err := svc.List()
		if err != nil {
			return err
		}

		if len(locations) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No locations found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPUBLISHED")
		for _, l := range locations {
			fmt.Fprintf(w, "%d\t%s\t%t\n", l.ID, l.Name, l.IsPublished)
		}
		return w.Flush()
	},
}

var locationDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a location; its posts are kept without a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid location id %q", args[0])
		}

		svc, err := locationService()
		if err != nil {
			return err
		}
		if err := svc.Delete(uint(id)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted location %d\n", id)
		return nil
	},
}

var locationPublishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Make a location visible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setLocationPublished(cmd, args[0], true)
	},
}

var locationUnpublishCmd = &cobra.Command{
	Use:   "unpublish <id>",
	Short: "Hide a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setLocationPublished(cmd, args[0], false)
	},
}

func init() {
	locationCreateCmd.Flags().BoolVar(&locationUnpublished, "unpublished", false, "create the location hidden")

	locationsCmd.AddCommand(locationCreateCmd)
	locationsCmd.AddCommand(locationListCmd)
	locationsCmd.AddCommand(locationPublishCmd)
	locationsCmd.AddCommand(locationUnpublishCmd)
	locationsCmd.AddCommand(locationDeleteCmd)
}

func locationService() (*services.LocationService, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	return services.NewLocationService(db), nil
}

func setLocationPublished(cmd *cobra.Command, rawID string, published bool) error {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid location id %q", rawID)
	}

	svc, err := locationService()
	if err != nil {
		return err
	}
	location, err := svc.SetPublished(uint(id), published)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Location %q published: %t\n", location.Name, location.IsPublished)
	return nil
}
