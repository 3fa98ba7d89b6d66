package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"coursecompare/internal/domain"
	"coursecompare/internal/view"
)

var errUsage = errors.New("invalid arguments")

func usage(format string) error {
	return fmt.Errorf("%w, usage: %s", errUsage, format)
}

func atoi(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	return n, err == nil && n > 0
}

func (c *CLI) handleHome(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, ok := atoi(args[0])
		if !ok {
			return usage("home [page]")
		}
		page = n
	}

	v := view.NewHome(c.env)
	v.Mount(ctx)
	defer v.Unmount()
	v.Load()
	for i := 1; i < page; i++ {
		v.LoadMore()
	}

	st := v.State()
	if st.Error != "" {
		fmt.Fprintln(c.out, st.Error)
		return nil
	}
	fmt.Fprintln(c.out, "Featured courses:")
	for _, course := range st.Featured {
		c.printCourseLine(course)
	}
	fmt.Fprintln(c.out, "\nAll courses:")
	for _, course := range st.Courses {
		c.printCourseLine(course)
	}
	if st.HasMore {
		fmt.Fprintf(c.out, "  ... 'home %d' for more\n", page+1)
	}
	fmt.Fprintln(c.out, "\nTop reviews:")
	for _, r := range st.Reviews {
		c.printReview(r)
	}
	return nil
}

func (c *CLI) handleCompare(ctx context.Context, args []string) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, ok := atoi(arg)
		if !ok {
			return usage("compare <id> [id] [id]")
		}
		ids = append(ids, id)
	}

	v := view.NewCompare(c.env)
	v.Mount(ctx)
	defer v.Unmount()
	v.Load()
	if len(ids) > 0 {
		v.Select(ids...)
	}

	st := v.State()
	if st.Error != "" {
		fmt.Fprintln(c.out, st.Error)
	}
	if len(st.Selected) == 0 {
		for _, course := range st.Courses {
			c.printCourseLine(course)
		}
		return nil
	}
	fmt.Fprintf(c.out, "%-24s %-16s %10s %10s %-16s %s\n", "Name", "Institute", "Fees", "Placement", "Rating", "Duration")
	for _, row := range st.Selected {
		fmt.Fprintf(c.out, "%-24s %-16s %10.2f %9.1f%% %-16s %s\n",
			row.Name, row.Institute, row.Fees, row.PlacementRate, row.Stars, row.Duration)
	}
	return nil
}

func (c *CLI) handleReviews(ctx context.Context, args []string) error {
	filter := 0
	if len(args) > 0 {
		id, ok := atoi(args[0])
		if !ok {
			return usage("reviews [course-id]")
		}
		filter = id
	}

	v := view.NewReviewPage(c.env)
	v.Mount(ctx)
	defer v.Unmount()
	v.Load()
	v.SetFilter(filter)

	st := v.State()
	if st.Error != "" {
		fmt.Fprintln(c.out, st.Error)
		return nil
	}
	if len(st.Reviews) == 0 {
		fmt.Fprintln(c.out, "No reviews yet.")
	}
	for _, r := range st.Reviews {
		c.printReview(r)
	}
	return nil
}

func (c *CLI) handleReview(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage(`review <course-id> <rating 1-5> ["comment"]`)
	}
	course, _ := strconv.Atoi(args[0])
	rating, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return usage(`review <course-id> <rating 1-5> ["comment"]`)
	}

	v := view.NewReviewPage(c.env)
	v.Mount(ctx)
	defer v.Unmount()
	v.Submit(view.ReviewForm{Course: course, Rating: rating, Comment: strings.Join(args[2:], " ")})

	st := v.State()
	if st.Error != "" {
		fmt.Fprintln(c.out, st.Error)
		return nil
	}
	fmt.Fprintln(c.out, st.Success)
	return nil
}

func (c *CLI) loadCourse(ctx context.Context, args []string) (*view.CourseDetails, func(), bool) {
	if len(args) != 1 {
		return nil, nil, false
	}
	id, ok := atoi(args[0])
	if !ok {
		return nil, nil, false
	}
	v := view.NewCourseDetails(c.env)
	v.Mount(ctx)
	v.Load(id)
	return v, v.Unmount, true
}

func (c *CLI) handleCourse(ctx context.Context, args []string) error {
	v, done, ok := c.loadCourse(ctx, args)
	if !ok {
		return usage("course <id>")
	}
	defer done()

	st := v.State()
	if c.printCourseFailure(st) {
		return nil
	}
	course := st.Course
	fmt.Fprintf(c.out, "%s (%s)\n", course.Name, course.Institute)
	fmt.Fprintf(c.out, "  Rating:    %s\n", st.Stars)
	fmt.Fprintf(c.out, "  Fees:      %s\n", course.Fees)
	fmt.Fprintf(c.out, "  Placement: %s%%\n", course.PlacementRate)
	if course.Duration != "" {
		fmt.Fprintf(c.out, "  Duration:  %s\n", course.Duration)
	}
	if course.Syllabus != "" {
		fmt.Fprintf(c.out, "  Syllabus:  %s\n", course.Syllabus)
	}
	if st.Saved {
		fmt.Fprintln(c.out, "  (saved to your dashboard)")
	}
	fmt.Fprintln(c.out, "Reviews:")
	if len(st.Reviews) == 0 {
		fmt.Fprintln(c.out, "  No reviews yet.")
	}
	for _, r := range st.Reviews {
		c.printReview(r)
	}
	return nil
}

func (c *CLI) handleSave(ctx context.Context, args []string) error {
	v, done, ok := c.loadCourse(ctx, args)
	if !ok {
		return usage("save <course-id>")
	}
	defer done()

	if c.printCourseFailure(v.State()) {
		return nil
	}
	v.SaveToDashboard()
	fmt.Fprintln(c.out, v.State().Message)
	return nil
}

func (c *CLI) handleLink(ctx context.Context, args []string) error {
	v, done, ok := c.loadCourse(ctx, args)
	if !ok {
		return usage("link <course-id>")
	}
	defer done()

	if c.printCourseFailure(v.State()) {
		return nil
	}
	if link := v.OpenLink(); link != "" {
		fmt.Fprintln(c.out, link)
		return nil
	}
	fmt.Fprintln(c.out, v.State().Message)
	return nil
}

func (c *CLI) printCourseFailure(st view.CourseDetailsState) bool {
	switch {
	case st.NotFound:
		fmt.Fprintln(c.out, st.Message)
	case st.Error != "":
		fmt.Fprintln(c.out, st.Error)
	default:
		return false
	}
	return true
}

func (c *CLI) handleDashboard(ctx context.Context) error {
	view.Guard(ctx, c.env.Session, func() {
		v := view.NewDashboard(c.env)
		v.Mount(ctx)
		defer v.Unmount()
		v.Load()

		st := v.State()
		if st.User != nil {
			fmt.Fprintf(c.out, "Welcome, %s!\n", st.User.Username)
		}
		if st.Error != "" {
			fmt.Fprintln(c.out, st.Error)
			return
		}
		if len(st.Courses) == 0 {
			fmt.Fprintln(c.out, "You have not saved any courses yet.")
			return
		}
		for _, entry := range st.Courses {
			fmt.Fprintf(c.out, "  [saved %d] #%d %s (%s) %s\n",
				entry.SavedCourseID, entry.ID, entry.Name, entry.Institute, view.Stars(entry.Rating.Float()))
		}
	})
	return nil
}

func (c *CLI) handleRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <saved-id>")
	}
	id, ok := atoi(args[0])
	if !ok {
		return usage("remove <saved-id>")
	}

	view.Guard(ctx, c.env.Session, func() {
		v := view.NewDashboard(c.env)
		v.Mount(ctx)
		defer v.Unmount()
		v.Remove(id)
		if st := v.State(); st.Error != "" {
			fmt.Fprintln(c.out, st.Error)
			return
		}
		fmt.Fprintln(c.out, "Course removed.")
	})
	return nil
}

func (c *CLI) handleContact(ctx context.Context) error {
	var msg domain.ContactMessage
	fields := []struct {
		label string
		dst   *string
	}{
		{"Name: ", &msg.Name},
		{"Email: ", &msg.Email},
		{"Subject: ", &msg.Subject},
		{"Message: ", &msg.Message},
	}
	for _, f := range fields {
		line, err := c.ask(f.label)
		if err != nil {
			return err
		}
		*f.dst = line
	}

	v := view.NewContact(c.env)
	v.Mount(ctx)
	defer v.Unmount()
	v.Submit(msg)

	st := v.State()
	if st.Error != "" {
		fmt.Fprintln(c.out, st.Error)
		return nil
	}
	fmt.Fprintln(c.out, st.Message)
	return nil
}

func (c *CLI) handleLogin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("login <username>")
	}
	password, err := c.in.ReadPassword("Password: ")
	if err != nil {
		return err
	}

	v := view.NewLogin(c.env)
	v.Mount(ctx)
	defer v.Unmount()
	v.Submit(args[0], string(password))

	if st := v.State(); st.Error != "" {
		fmt.Fprintln(c.out, st.Error)
		return nil
	}
	fmt.Fprintf(c.out, "Logged in as %s.\n", args[0])
	return nil
}

func (c *CLI) handleRegister(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("register <username> <email>")
	}
	password, err := c.in.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := c.in.ReadPassword("Confirm password: ")
	if err != nil {
		return err
	}

	v := view.NewRegister(c.env)
	v.Mount(ctx)
	defer v.Unmount()
	v.Submit(domain.Registration{
		Username:        args[0],
		Email:           args[1],
		Password:        string(password),
		PasswordConfirm: string(confirm),
	})

	st := v.State()
	if st.Error != "" {
		fmt.Fprintln(c.out, st.Error)
		return nil
	}
	fmt.Fprintln(c.out, st.Success)
	return nil
}

// handleProfile sin argumentos muestra el formulario precargado; con
// <username> <email> lo envía, pidiendo una clave nueva opcional.
func (c *CLI) handleProfile(ctx context.Context, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return usage("profile [<username> <email>]")
	}

	var err error
	view.Guard(ctx, c.env.Session, func() {
		v := view.NewUpdateProfile(c.env)
		v.Mount(ctx)
		defer v.Unmount()

		if len(args) == 0 {
			form := v.State().Form
			fmt.Fprintf(c.out, "Username: %s\nEmail:    %s\n", form.Username, form.Email)
			return
		}

		var password, confirm []byte
		password, err = c.in.ReadPassword("New password (blank to keep): ")
		if err != nil {
			return
		}
		if len(password) > 0 {
			confirm, err = c.in.ReadPassword("Confirm new password: ")
			if err != nil {
				return
			}
		}
		v.Submit(domain.ProfileUpdate{
			Username:        args[0],
			Email:           args[1],
			Password:        string(password),
			PasswordConfirm: string(confirm),
		})
		st := v.State()
		if st.Error != "" {
			fmt.Fprintln(c.out, st.Error)
			return
		}
		fmt.Fprintln(c.out, st.Success)
	})
	return err
}

func (c *CLI) handleWhoami() error {
	snap := c.env.Session.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		fmt.Fprintln(c.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(c.out, "%s", snap.User.Username)
	if snap.User.Email != "" {
		fmt.Fprintf(c.out, " <%s>", snap.User.Email)
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *CLI) handleNav() error {
	for _, link := range view.NavLinks(c.env.Session.Snapshot()) {
		fmt.Fprintf(c.out, "  %-16s %s\n", link.Label, link.Path)
	}
	return nil
}

func (c *CLI) handleHelp() error {
	fmt.Fprintln(c.out, "Commands:")
	for _, line := range commandHelp {
		fmt.Fprintf(c.out, "  %s\n", line)
	}
	fmt.Fprintln(c.out, "\nFAQ:")
	for _, topic := range view.HelpTopics() {
		fmt.Fprintf(c.out, "  Q: %s\n     %s\n", topic.Question, topic.Answer)
	}
	return nil
}

var commandHelp = []string{
	"home [page]                      featured courses, course grid and top reviews",
	"compare <id> [id] [id]           compare up to 3 courses side by side",
	"reviews [course-id]              list reviews, optionally for one course",
	`review <course-id> <1-5> "text"  write a review (login required)`,
	"course <id>                      course details and its reviews",
	"save <course-id>                 save a course to your dashboard",
	"link <course-id>                 print the course website",
	"dashboard                        your saved courses",
	"remove <saved-id>                remove a saved course",
	"contact                          send a message to the team",
	"login <username>                 log in (password is prompted)",
	"logout                           log out",
	"register <username> <email>      create an account",
	"profile [<username> <email>]     show or update your profile",
	"whoami | nav | help | exit",
}

func (c *CLI) ask(prompt string) (string, error) {
	c.in.SetPrompt(prompt)
	defer c.in.SetPrompt(c.Prompt())
	line, err := c.in.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *CLI) printCourseLine(course domain.Course) {
	fmt.Fprintf(c.out, "  #%-3d %-28s %-18s %s\n", course.ID, course.Name, course.Institute, view.Stars(course.Rating.Float()))
}

func (c *CLI) printReview(r domain.Review) {
	author := string(r.User)
	if author == "" {
		author = "anonymous"
	}
	fmt.Fprintf(c.out, "  %s on course #%d by %s\n", view.Stars(r.Rating), r.Course, author)
	if r.Comment != "" {
		fmt.Fprintf(c.out, "    %q\n", r.Comment)
	}
}
