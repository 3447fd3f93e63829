package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"campusnest/internal/dto"
	"campusnest/internal/export"
	"campusnest/pkg/nestclient"

	"github.com/google/uuid"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = runRegister(args)
	case "login":
		err = runLogin(args)
	case "review":
		err = runReview(args)
	case "housing":
		err = runHousing(args)
	case "favorites":
		err = runFavorites(args)
	case "export":
		err = runExport(args)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  register   Create an account with a school email")
	fmt.Fprintln(os.Stderr, "  login      Sign in and print an access token")
	fmt.Fprintln(os.Stderr, "  review     Submit a review, creating the housing if needed")
	fmt.Fprintln(os.Stderr, "  housing    List housing or show one with -id")
	fmt.Fprintln(os.Stderr, "  favorites  List, add or remove favorites")
	fmt.Fprintln(os.Stderr, "  export     Write the housing list to an .xlsx file")
	os.Exit(2)
}

type common struct {
	baseURL string
	token   string
	timeout time.Duration
}

func newFlags(name string, c *common) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.baseURL, "base-url", getenv("NESTCTL_BASE_URL", "http://localhost:8085"), "API base URL")
	fs.StringVar(&c.token, "token", os.Getenv("NESTCTL_TOKEN"), "access token (from login)")
	fs.DurationVar(&c.timeout, "timeout", 15*time.Second, "request timeout")
	return fs
}

func (c common) client() *nestclient.Client {
	cl := nestclient.New(strings.TrimRight(c.baseURL, "/"), nestclient.WithTimeout(c.timeout))
	if c.token != "" {
		cl.SetToken(c.token)
	}
	return cl
}

func runRegister(args []string) error {
	var c common
	var req dto.RegisterRequest
	fs := newFlags("register", &c)
	fs.StringVar(&req.Name, "name", "", "display name")
	fs.StringVar(&req.Email, "email", "", "school email address")
	fs.StringVar(&req.Password, "password", os.Getenv("NESTCTL_PASSWORD"), "password (min 8 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := c.client().Register(context.Background(), req)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func runLogin(args []string) error {
	var c common
	var email, password string
	fs := newFlags("login", &c)
	fs.StringVar(&email, "email", "", "school email address")
	fs.StringVar(&password, "password", os.Getenv("NESTCTL_PASSWORD"), "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := c.client().Login(context.Background(), email, password)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runReview(args []string) error {
	var c common
	var req dto.SubmitReviewRequest
	var title, images string
	var rent int
	fs := newFlags("review", &c)
	fs.StringVar(&req.Housing.Name, "name", "", "housing name")
	fs.StringVar(&req.Housing.Address, "address", "", "street address")
	fs.StringVar(&req.Housing.City, "city", "", "city")
	fs.StringVar(&req.Housing.State, "state", "", "state")
	fs.StringVar(&req.Housing.ZipCode, "zip", "", "zip code")
	fs.BoolVar(&req.Housing.IsOnCampus, "on-campus", false, "housing is on campus")
	fs.IntVar(&req.Review.OverallRating, "rating", 0, "overall rating 1-10")
	fs.StringVar(&req.Review.Description, "text", "", "review text")
	fs.StringVar(&title, "title", "", "review title (optional)")
	fs.IntVar(&rent, "rent", -1, "monthly rent (optional)")
	fs.BoolVar(&req.Review.IsAnonymous, "anonymous", false, "hide your name")
	fs.StringVar(&images, "images", "", "comma separated image URLs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if title != "" {
		req.Review.Title = &title
	}
	if rent >= 0 {
		req.Review.MonthlyRent = &rent
	}
	if images != "" {
		for _, u := range strings.Split(images, ",") {
			if u = strings.TrimSpace(u); u != "" {
				req.Review.Images = append(req.Review.Images, u)
			}
		}
	}
	res, err := c.client().SubmitReview(context.Background(), req)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runHousing(args []string) error {
	var c common
	var id string
	fs := newFlags("housing", &c)
	fs.StringVar(&id, "id", "", "show one housing with its reviews")
	f := housingFilterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	ctx := context.Background()
	cl := c.client()
	if id != "" {
		hid, err := uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("invalid -id: %w", err)
		}
		detail, err := cl.GetHousing(ctx, hid)
		if err != nil {
			return err
		}
		return printJSON(detail)
	}
	rows, err := cl.ListHousing(ctx, f.filter())
	if err != nil {
		return err
	}
	return printJSON(rows)
}

func runFavorites(args []string) error {
	var c common
	var add, remove string
	fs := newFlags("favorites", &c)
	fs.StringVar(&add, "add", "", "housing id to favorite")
	fs.StringVar(&remove, "remove", "", "housing id to unfavorite")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if add != "" && remove != "" {
		return errors.New("use either -add or -remove")
	}
	ctx := context.Background()
	cl := c.client()
	switch {
	case add != "":
		id, err := uuid.Parse(add)
		if err != nil {
			return fmt.Errorf("invalid -add: %w", err)
		}
		if err := cl.AddFavorite(ctx, id); err != nil {
			return err
		}
		return printJSON(dto.SuccessResponse{Success: true})
	case remove != "":
		id, err := uuid.Parse(remove)
		if err != nil {
			return fmt.Errorf("invalid -remove: %w", err)
		}
		if err := cl.RemoveFavorite(ctx, id); err != nil {
			return err
		}
		return printJSON(dto.SuccessResponse{Success: true})
	}
	favs, err := cl.ListFavorites(ctx)
	if err != nil {
		return err
	}
	return printJSON(favs)
}

func runExport(args []string) error {
	var c common
	var out string
	fs := newFlags("export", &c)
	fs.StringVar(&out, "out", "housing.xlsx", "output file")
	f := housingFilterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rows, err := c.client().ListHousing(context.Background(), f.filter())
	if err != nil {
		return err
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.WriteHousingXLSX(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", len(rows), out)
	return nil
}

type filterFlags struct {
	school, city, onCampus string
	minRent, maxRent       int
}

func housingFilterFlags(fs *flag.FlagSet) *filterFlags {
	var f filterFlags
	fs.StringVar(&f.school, "school", "", "school id")
	fs.StringVar(&f.city, "city", "", "city")
	fs.StringVar(&f.onCampus, "on-campus", "", "true or false")
	fs.IntVar(&f.minRent, "min-rent", -1, "minimum average rent")
	fs.IntVar(&f.maxRent, "max-rent", -1, "maximum average rent")
	return &f
}

func (f *filterFlags) filter() dto.HousingFilter {
	out := dto.HousingFilter{City: f.city}
	if id, err := uuid.Parse(f.school); err == nil {
		out.SchoolID = &id
	}
	switch f.onCampus {
	case "true":
		v := true
		out.IsOnCampus = &v
	case "false":
		v := false
		out.IsOnCampus = &v
	}
	if f.minRent >= 0 {
		out.MinRent = &f.minRent
	}
	if f.maxRent >= 0 {
		out.MaxRent = &f.maxRent
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
