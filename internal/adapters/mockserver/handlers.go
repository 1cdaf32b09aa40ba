package mockserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
)

const identityKey = "identity"

func (s *Server) register(c *fiber.Ctx) error {
	var req domain.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}
	if err := domain.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), bcrypt.MinCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Identity]; exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Username already exists"})
	}
	s.accounts[req.Identity] = account{email: req.Email, identity: req.Identity, hash: hash}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"msg": "User registered successfully"})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body"})
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Identity]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Secret)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Bad username or password"})
	}

	token, err := s.issueToken(acct.identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"access_token": token, "username": acct.identity})
}

// IssueToken signs a credential for identity without an account check
func (s *Server) IssueToken(identity string) (string, error) {
	return s.issueToken(identity)
}

func (s *Server) issueToken(identity string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": identity,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) requireToken(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Missing Authorization Header"})
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		msg := "Invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Token has expired"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": msg})
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"msg": "Invalid claims"})
	}
	c.Locals(identityKey, sub)
	return c.Next()
}

func currentIdentity(c *fiber.Ctx) string {
	id, _ := c.Locals(identityKey).(string)
	return id
}

func readImage(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

type similarImage struct {
	Index     int    `json:"index"`
	Timestamp string `json:"timestamp"`
	Distance  int    `json:"distance"`
	Uploader  string `json:"uploader"`
}

// nearest returns every stored post within the threshold, closest first, and
// the smallest distance seen. minDist is -1 when nothing is stored.
func (s *Server) nearest(fp fingerprint) (similar []similarImage, minDist int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	minDist = -1
	similar = make([]similarImage, 0)
	for i, p := range s.posts {
		d := fp.distance(p.print)
		if minDist < 0 || d < minDist {
			minDist = d
		}
		if d <= s.threshold {
			similar = append(similar, similarImage{
				Index:     i,
				Timestamp: p.createdAt.Format(time.RFC3339),
				Distance:  d,
				Uploader:  p.identity,
			})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool { return similar[i].Distance < similar[j].Distance })
	return similar, minDist
}

func (s *Server) checkDuplicate(c *fiber.Ctx) error {
	data, err := readImage(c)
	if err != nil || len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No image provided"})
	}

	similar, minDist := s.nearest(fingerprintOf(data))
	reply := fiber.Map{
		"status":         "unique",
		"is_duplicate":   false,
		"min_distance":   nil,
		"similar_images": similar,
		"message":        "No similar images found",
	}
	if minDist >= 0 {
		reply["min_distance"] = minDist
	}
	if len(similar) > 0 {
		reply["status"] = "duplicate"
		reply["is_duplicate"] = true
		reply["message"] = fmt.Sprintf("Found %d similar image(s)", len(similar))
	}
	return c.JSON(reply)
}

func (s *Server) upload(c *fiber.Ctx) error {
	data, err := readImage(c)
	if err != nil || len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No image provided"})
	}
	caption := c.FormValue("message")
	if strings.TrimSpace(caption) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No message provided"})
	}

	if hidden, ok := hiddenMessage(data); ok {
		return c.JSON(fiber.Map{
			"status":         "hidden data detected",
			"hidden_message": hidden,
			"message":        "This image already carries a hidden message",
		})
	}

	if label, score := analyze(caption); label == "negative" {
		return c.JSON(fiber.Map{
			"status":    "rejected",
			"message":   "Message contains negative sentiment",
			"sentiment": label,
			"score":     score,
		})
	}

	fp := fingerprintOf(data)
	similar, minDist := s.nearest(fp)
	if minDist == 0 {
		closest := similar[0]
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "duplicate",
			"message": "This image has already been uploaded",
			"details": fiber.Map{
				"distance":             closest.Distance,
				"threshold":            s.threshold,
				"existing_image_index": closest.Index,
				"existing_uploader":    closest.Uploader,
				"timestamp":            closest.Timestamp,
			},
		})
	}
	if len(similar) > 0 {
		return c.JSON(fiber.Map{
			"status":         "rejected",
			"message":        "Image is too similar to an existing upload",
			"similar_images": similar,
		})
	}

	s.mu.Lock()
	p := post{
		id:        s.nextPost,
		identity:  currentIdentity(c),
		caption:   caption,
		image:     data,
		print:     fp,
		createdAt: time.Now().UTC(),
	}
	s.nextPost++
	s.posts = append(s.posts, p)
	s.mu.Unlock()

	return c.JSON(fiber.Map{
		"status":   "ok",
		"message":  "Message embedded and uploaded successfully!",
		"post_id":  p.id,
		"file_url": s.fileURL(c, p.id),
	})
}

func (s *Server) postView(c *fiber.Ctx, p post) fiber.Map {
	return fiber.Map{
		"id":         p.id,
		"username":   p.identity,
		"file_url":   s.fileURL(c, p.id),
		"created_at": p.createdAt.Format(time.RFC3339),
	}
}

func (s *Server) listUploads(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"uploads": s.postViews(c, "")})
}

func (s *Server) myPosts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"posts": s.postViews(c, currentIdentity(c))})
}

// postViews lists posts newest first, optionally only those of identity
func (s *Server) postViews(c *fiber.Ctx, identity string) []fiber.Map {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]fiber.Map, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		p := s.posts[i]
		if identity != "" && p.identity != identity {
			continue
		}
		views = append(views, s.postView(c, p))
	}
	return views
}

func (s *Server) file(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.ErrNotFound
	}
	p, ok := s.findPost(id)
	if !ok {
		return fiber.ErrNotFound
	}
	c.Set(fiber.HeaderContentType, http.DetectContentType(p.image))
	return c.Send(p.image)
}

func (s *Server) findPost(id int64) (post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.id == id {
			return p, true
		}
	}
	return post{}, false
}

type analyzeRequest struct {
	Comment string `json:"comment"`
}

func (s *Server) analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	label, score := analyze(req.Comment)
	return c.JSON(fiber.Map{"sentiment": label, "score": score})
}

type createCommentRequest struct {
	PostID interface{} `json:"post_id"`
	Text   string      `json:"text"`
}

func (s *Server) createComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Comment text is required"})
	}

	postID, ok := parsePostID(req.PostID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid post_id"})
	}
	if _, found := s.findPost(postID); !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Post not found"})
	}

	s.mu.Lock()
	cm := comment{
		id:        s.nextNote,
		postID:    postID,
		identity:  currentIdentity(c),
		text:      req.Text,
		createdAt: time.Now().UTC(),
	}
	s.nextNote++
	s.comments = append(s.comments, cm)
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok", "comment": commentView(cm)})
}

func (s *Server) listComments(c *fiber.Ctx) error {
	postID, ok := parsePostID(c.Query("post_id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid post_id"})
	}

	s.mu.Lock()
	views := make([]fiber.Map, 0)
	for _, cm := range s.comments {
		if cm.postID == postID {
			views = append(views, commentView(cm))
		}
	}
	s.mu.Unlock()

	return c.JSON(fiber.Map{"comments": views})
}

func commentView(cm comment) fiber.Map {
	return fiber.Map{
		"id":         cm.id,
		"post_id":    cm.postID,
		"username":   cm.identity,
		"text":       cm.text,
		"created_at": cm.createdAt.Format(time.RFC3339),
	}
}

func parsePostID(v interface{}) (int64, bool) {
	switch id := v.(type) {
	case float64:
		return int64(id), id == float64(int64(id))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
