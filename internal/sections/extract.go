package sections

import "strings"

// HeaderLines is the number of leading lines in which the profile image is
// treated as a header image and removed from the body.
const HeaderLines = 5

// Section headings recognized by the line scanner.
const (
	skillsHeading    = "## Skills"
	languagesHeading = "## Languages"
	sectionPrefix    = "## "
	titlePrefix      = "# "
	bulletPrefix     = "- "
	imagePrefix      = "!["
)

// ProfileImage is the first managed image of the document.
type ProfileImage struct {
	Alt       string
	ID        string
	URL       string
	Path      string // staging-relative path, images/<id>
	Construct string // full markdown construct, attribute block included
	Stripped  bool   // removed from a header line
}

// Sections holds the line-based regions of the document.
type Sections struct {
	ContactInfo []string
	Skills      []string
	Languages   []string
}

// Result is everything extracted from one document.
type Result struct {
	Profile    *ProfileImage
	Content    string
	Attributes map[string]Offsets
	Sections   Sections
}

// ProfileOffsets returns the offsets of the profile image, if any.
func (r Result) ProfileOffsets() (Offsets, bool) {
	if r.Profile == nil {
		return Offsets{}, false
	}
	o, ok := r.Attributes[r.Profile.ID]
	return o, ok
}

// Extract parses the profile image, image attributes and line sections out of
// a markdown document. It never fails: malformed input yields empty results.
func Extract(markdown string) Result {
	profile, content := ExtractProfileImage(markdown)
	return Result{
		Profile:    profile,
		Content:    content,
		Attributes: ExtractAttributes(markdown),
		Sections:   ExtractSections(content),
	}
}

// ExtractProfileImage finds the first managed image. When its full construct
// appears in one of the first HeaderLines lines, it is removed from that line.
// Occurrences further down are left in place.
func ExtractProfileImage(markdown string) (*ProfileImage, string) {
	refs := ManagedImages(markdown)
	if len(refs) == 0 {
		return nil, markdown
	}

	first := refs[0]
	profile := &ProfileImage{
		Alt:       first.Alt,
		ID:        first.ID,
		URL:       first.URL,
		Path:      "images/" + first.ID,
		Construct: first.Full,
	}

	lines := strings.Split(markdown, "\n")
	for i := 0; i < len(lines) && i < HeaderLines; i++ {
		if strings.Contains(lines[i], first.Full) {
			lines[i] = strings.ReplaceAll(lines[i], first.Full, "")
			profile.Stripped = true
			return profile, strings.Join(lines, "\n")
		}
	}

	return profile, markdown
}

// contactPhase tracks the contact block around the first level-1 heading.
type contactPhase int

const (
	beforeHeading contactPhase = iota
	inContact
	contactDone
)

// listState tracks which labelled list section the scanner is in.
type listState int

const (
	inOtherSection listState = iota
	inSkills
	inLanguages
)

// scanState is the line scanner. The two registers are independent: a
// "## Skills" heading placed before the title still opens the skills list.
type scanState struct {
	contact  contactPhase
	list     listState
	sections Sections
}

func (s *scanState) feed(line string) {
	line = strings.TrimSuffix(line, "\r")

	if strings.HasPrefix(line, sectionPrefix) {
		if s.contact == inContact {
			s.contact = contactDone
		}
		switch {
		case strings.HasPrefix(line, skillsHeading):
			s.list = inSkills
		case strings.HasPrefix(line, languagesHeading):
			s.list = inLanguages
		default:
			s.list = inOtherSection
		}
		return
	}

	switch s.contact {
	case beforeHeading:
		if strings.HasPrefix(line, titlePrefix) {
			s.contact = inContact
		}
	case inContact:
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, imagePrefix) {
			s.sections.ContactInfo = append(s.sections.ContactInfo, line)
		}
	}

	s.feedList(line)
}

func (s *scanState) feedList(line string) {
	if strings.TrimSpace(line) == "" || !strings.HasPrefix(line, bulletPrefix) {
		return
	}
	switch s.list {
	case inSkills:
		s.sections.Skills = append(s.sections.Skills, line)
	case inLanguages:
		s.sections.Languages = append(s.sections.Languages, line)
	}
}

// ExtractSections collects the contact block and the Skills and Languages
// bullet lists.
func ExtractSections(markdown string) Sections {
	s := &scanState{}
	for _, line := range strings.Split(markdown, "\n") {
		s.feed(line)
	}
	return s.sections
}
