package storage

import (
	"context"
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/museumctl/internal/graph"
)

func TestPolicyDocument_BlocksUntilBucketResolves(t *testing.T) {
	t.Parallel()
	spec := &PrincipalSpec{
		UserName:   "museum-chartmuseum",
		PolicyName: "museum-charts-rw",
		Bucket:     graph.NewFuture[string]("storage-bucket.name"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := spec.PolicyDocument(ctx); err == nil {
		t.Error("PolicyDocument() must fail while the bucket name is unresolved and the context expires")
	}
}

func TestSecretSpec_Render(t *testing.T) {
	t.Parallel()
	keyID := graph.NewFuture[string]("storage-access-key.id")
	keySecret := graph.NewFuture[string]("storage-access-key.secret")

	spec := &SecretSpec{
		Name:      "museum-storage-creds",
		Namespace: "charts",
		Labels:    map[string]string{"app": "chartmuseum"},
		Data: map[string]graph.Value{
			"accessKeyID":     graph.Deferred(keyID),
			"secretAccessKey": graph.Deferred(keySecret),
		},
	}

	if err := keyID.Resolve("AKIAEXAMPLE"); err != nil {
		t.Fatal(err)
	}
	if err := keySecret.Resolve("shhh"); err != nil {
		t.Fatal(err)
	}

	secret, err := spec.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if secret.Name != "museum-storage-creds" || secret.Namespace != "charts" {
		t.Errorf("metadata = %s/%s", secret.Namespace, secret.Name)
	}
	if secret.Type != corev1.SecretTypeOpaque {
		t.Errorf("Type = %q, want Opaque", secret.Type)
	}
	if string(secret.Data["accessKeyID"]) != "AKIAEXAMPLE" {
		t.Errorf("accessKeyID = %q", secret.Data["accessKeyID"])
	}
	if string(secret.Data["secretAccessKey"]) != "shhh" {
		t.Errorf("secretAccessKey = %q", secret.Data["secretAccessKey"])
	}
}

func TestSecretSpec_RenderFailsOnUnresolvedValue(t *testing.T) {
	t.Parallel()
	spec := &SecretSpec{
		Name:      "museum-storage-creds",
		Namespace: "charts",
		Data: map[string]graph.Value{
			"accessKeyID": graph.Deferred(graph.NewFuture[string]("storage-access-key.id")),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := spec.Render(ctx); err == nil {
		t.Error("Render() must fail when a deferred value never resolves")
	}
}
