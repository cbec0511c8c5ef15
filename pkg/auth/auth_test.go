package auth

import (
	"testing"

	"github.com/secopshq/shiftboard/pkg/models"
)

func TestCanEditTeam(t *testing.T) {
	admin := models.User{ID: "admin", Role: models.RoleAdmin}
	lead := models.User{ID: "harman", Role: models.RoleLead, Team: "CSIRT"}
	member := models.User{ID: "member", Role: models.RoleMember, Team: "CSIRT"}

	cases := []struct {
		name string
		user models.User
		team string
		want bool
	}{
		{"admin any team", admin, "ThreatMgmt", true},
		{"lead own team", lead, "CSIRT", true},
		{"lead other team", lead, "ThreatMgmt", false},
		{"member own team", member, "CSIRT", false},
		{"member other team", member, "SecProjects", false},
	}
	for _, c := range cases {
		if got := CanEditTeam(c.user, c.team); got != c.want {
			t.Errorf("%s: CanEditTeam = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{ID: "saurav", Name: "Saurav Singh", Role: models.RoleLead, Team: "ThreatMgmt"}
	token, err := CreateToken(user)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if got := claims.User(); got != user {
		t.Errorf("claims round trip = %+v, want %+v", got, user)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	if _, err := VerifyToken("not.a.token"); err == nil {
		t.Error("garbage token verified")
	}
}

func TestHMACKeyRoundTrip(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "test-secret")

	key := GenerateHMACKey("grafana-export")
	name, err := VerifyHMACKey(key)
	if err != nil {
		t.Fatalf("VerifyHMACKey: %v", err)
	}
	if name != "grafana-export" {
		t.Errorf("key name = %q", name)
	}

	if _, err := VerifyHMACKey("grafana-export.deadbeef"); err == nil {
		t.Error("forged signature verified")
	}
	if _, err := VerifyHMACKey("no-signature"); err == nil {
		t.Error("unsigned key verified")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("lead123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("lead123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
