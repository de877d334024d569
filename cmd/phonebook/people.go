package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/phonebook/internal/models"
	"github.com/mmynk/phonebook/internal/storage"
)

func newPeopleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Manage people and their phone numbers",
	}

	cmd.AddCommand(newPeopleListCmd(a), newPeopleIDsCmd(a), newPeopleAddCmd(a), newPeopleDeleteCmd(a))
	return cmd
}

func newPeopleListCmd(a *app) *cobra.Command {
	var orderBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people with their phone numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			people, err := a.store.ListPeople(cmd.Context(), orderBy)
			if err != nil {
				return err
			}
			return renderPeople(cmd, people)
		},
	}

	columns := make([]string, 0, len(storage.SortFields()))
	for _, f := range storage.SortFields() {
		columns = append(columns, f.Column)
	}
	cmd.Flags().StringVarP(&orderBy, "order-by", "o", "person_id", "Sort field: "+strings.Join(columns, ", "))
	return cmd
}

func renderPeople(cmd *cobra.Command, people []*models.Person) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	headings := make([]string, 0, len(storage.SortFields())+1)
	for _, f := range storage.SortFields() {
		headings = append(headings, f.Heading)
	}
	headings = append(headings, "Phone Numbers")
	fmt.Fprintln(w, strings.Join(headings, "\t"))

	for _, p := range people {
		phones := make([]string, len(p.PhoneNumbers))
		for i, ph := range p.PhoneNumbers {
			phones[i] = formatPhone(ph)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.FirstName, p.LastName, p.Birthday, p.Email, strings.Join(phones, ", "))
	}
	return w.Flush()
}

func newPeopleIDsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "Print every person id",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.store.PersonIDs(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newPeopleAddCmd(a *app) *cobra.Command {
	var (
		p      models.Person
		phones []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person with optional phone numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			p.PhoneNumbers = nil
			for _, raw := range phones {
				phone, err := parsePhone(raw)
				if err != nil {
					return err
				}
				p.PhoneNumbers = append(p.PhoneNumbers, phone)
			}

			if err := a.store.AddPerson(cmd.Context(), &p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id %d) with %d phone number(s)\n",
				p.FullName(), p.ID, len(p.PhoneNumbers))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.FirstName, "first", "", "First name")
	f.StringVar(&p.LastName, "last", "", "Last name")
	f.StringVar(&p.Birthday, "birthday", "", "Birthday (YYYY-MM-DD)")
	f.StringVar(&p.Email, "email", "", "Email address")
	f.StringVar(&p.AddressLine1, "address1", "", "Address line 1")
	f.StringVar(&p.AddressLine2, "address2", "", "Address line 2")
	f.StringVar(&p.City, "city", "", "City")
	f.StringVar(&p.Prov, "prov", "", "Province or state")
	f.StringVar(&p.Country, "country", "", "Country")
	f.StringVar(&p.Postcode, "postcode", "", "Postal code")
	f.StringArrayVar(&phones, "phone", nil, "Phone as NUMBER:LABEL (repeatable)")
	return cmd
}

func newPeopleDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a person and their phone numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid person id %q: %w", args[0], err)
			}

			deleted, err := a.store.DeletePerson(cmd.Context(), id)
			if err != nil {
				return err
			}
			if deleted == 0 {
				return fmt.Errorf("no person with id %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted person %d\n", id)
			return nil
		},
	}
}

// parsePhone parses NUMBER[:LABEL]. The label is everything after the last colon.
func parsePhone(raw string) (models.Phone, error) {
	number, label := raw, ""
	if i := strings.LastIndex(raw, ":"); i >= 0 {
		number, label = raw[:i], raw[i+1:]
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return models.Phone{}, fmt.Errorf("invalid phone %q: number is empty", raw)
	}
	return models.Phone{Number: number, Label: strings.ToUpper(strings.TrimSpace(label))}, nil
}

func formatPhone(p models.Phone) string {
	if p.Label == "" {
		return p.Number
	}
	return fmt.Sprintf("%s (%s)", p.Number, p.Label)
}
