package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"kickback/internal/adapters/eventsapi"
	"kickback/internal/domain"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect events from the events API",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := withSpinner(cmd.Context(), "Fetching events", newReader().FetchEvents)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			pterm.Info.Println("No events found.")
			return nil
		}
		out, err := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").
			WithData(eventTable(events)).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show one event and its participants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		reader := newReader()

		events, err := withSpinner(cmd.Context(), "Fetching events", reader.FetchEvents)
		if err != nil {
			return err
		}
		event := findEvent(events, id)
		if event == nil {
			return fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
		}
		participants, err := withSpinner(cmd.Context(), "Fetching participants", func(ctx context.Context) ([]string, error) {
			return reader.FetchParticipants(ctx, id)
		})
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println(event.Name)
		details, err := pterm.DefaultTable.WithData(eventDetails(event)).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), details)

		pterm.DefaultSection.WithLevel(2).Println("Participants")
		if len(participants) == 0 {
			pterm.Info.Println("No participants yet.")
			return nil
		}
		list, err := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").
			WithData(participantTable(participants)).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), list)
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
}

func newReader() domain.EventReader {
	return eventsapi.NewHTTPEventReader(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.EventsAPIURL)
}

// withSpinner runs fetch behind a terminal spinner.
func withSpinner[T any](ctx context.Context, text string, fetch func(context.Context) (T, error)) (T, error) {
	spinner, _ := pterm.DefaultSpinner.WithText(text).Start()
	v, err := fetch(ctx)
	if spinner != nil {
		if err != nil {
			spinner.Fail(text + ": " + err.Error())
		} else {
			spinner.Success(text)
		}
	}
	return v, err
}

func eventTable(events []*domain.Event) pterm.TableData {
	data := pterm.TableData{{"ID", "Name", "Date", "Location", "Capacity", "Stake", "Status"}}
	for _, e := range events {
		c := domain.NewEventCard(e)
		data = append(data, []string{
			strconv.FormatUint(c.ID, 10), c.Name, c.DateLabel, c.Location, c.CapacityLabel, c.StakeLabel, c.StatusLabel,
		})
	}
	return data
}

func eventDetails(e *domain.Event) pterm.TableData {
	c := domain.NewEventCard(e)
	return pterm.TableData{
		{"ID", strconv.FormatUint(c.ID, 10)},
		{"Organizer", c.Organizer},
		{"Date", c.DateLabel},
		{"Location", c.Location},
		{"Capacity", c.CapacityLabel},
		{"Stake", c.StakeLabel},
		{"Status", c.StatusLabel},
	}
}

func participantTable(participants []string) pterm.TableData {
	data := pterm.TableData{{"#", "Address"}}
	for i, p := range participants {
		data = append(data, []string{strconv.Itoa(i + 1), p})
	}
	return data
}

func findEvent(events []*domain.Event, id uint64) *domain.Event {
	for _, e := range events {
		if e.ID == id {
			return e
		}
	}
	return nil
}
