package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bosun/pkg/domain/model"
)

func TestNewVersionInfo(t *testing.T) {
	v := model.NewVersionInfo("1.2.3", "1.3.0")
	gt.Equal(t, v.Old, "1.2.3")
	gt.Equal(t, v.New, "1.3.0")
	gt.Equal(t, v.Tag, "v1.3.0")
	gt.Value(t, v.IsPrerelease()).Equal(false)

	pre := model.NewVersionInfo("1.2.3", "1.3.0-beta.0")
	gt.Equal(t, pre.Tag, "v1.3.0-beta.0")
	gt.True(t, pre.IsPrerelease())
}

func TestReleaseConfig_EffectivePreid(t *testing.T) {
	gt.Equal(t, model.ReleaseConfig{Preid: "beta"}.EffectivePreid("docs"), "beta")
	gt.Equal(t, model.ReleaseConfig{DocsOnly: true}.EffectivePreid("docs"), "docs")
	gt.Equal(t, model.ReleaseConfig{DocsOnly: true, Preid: "beta"}.EffectivePreid("docs"), "beta")
	gt.Equal(t, model.ReleaseConfig{}.EffectivePreid("docs"), "")
}

func TestMirrorTarget_Validate(t *testing.T) {
	full := model.MirrorTarget{
		RepositoryURL: "git@github.com:acme/widget-dist.git",
		SourceDir:     "dist",
		ScratchDir:    ".release-dist",
	}
	gt.NoError(t, full.Validate())
	gt.True(t, full.Enabled())

	gt.Value(t, model.MirrorTarget{}.Enabled()).Equal(false)

	missing := full
	missing.ScratchDir = ""
	gt.Error(t, missing.Validate())
}
